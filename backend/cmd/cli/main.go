package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"socialnet/backend/internal/graph"
	"socialnet/backend/internal/identity"
	"socialnet/backend/internal/social"
	"socialnet/backend/pkg/config"
	"socialnet/backend/pkg/logger"
)

// session carries the interactive state that the core deliberately does not
// hold: the logged-in person, refreshed after every confirmed mutation
type session struct {
	current *identity.Person
}

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to Postgres", zap.Error(err))
	}

	var cache *identity.PersonCache
	if cfg.RedisAddr != "" {
		rdb := identity.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cache = identity.NewPersonCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	store := identity.NewStore(db, cache)
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate identity tables", zap.Error(err))
	}

	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer driver.Close(context.Background())

	graphRepo := graph.NewRepository(driver)
	coordinator := social.NewCoordinator(store, graphRepo)
	queries := social.NewQueryService(store, graphRepo)

	app := &cli{
		in:          bufio.NewScanner(os.Stdin),
		store:       store,
		coordinator: coordinator,
		queries:     queries,
	}
	app.run(ctx)
}

type cli struct {
	in          *bufio.Scanner
	store       *identity.Store
	coordinator *social.Coordinator
	queries     *social.QueryService
}

func (a *cli) run(ctx context.Context) {
	fmt.Println("-------------- Social Network --------------")
	const loginMessage = "\nLog in or sign up to access this feature."

	sess := &session{}
	for {
		fmt.Println("\n0. Sign up (register)")
		fmt.Println("1. Log in")
		fmt.Println("2. Display feed")
		fmt.Println("3. Find a user by name")
		fmt.Println("4. Subscribe to a user")
		fmt.Println("5. Unsubscribe from a user")
		fmt.Println("6. Find all posts of a user")
		fmt.Println("7. Like a post")
		fmt.Println("8. Remove like from a post")
		fmt.Println("9. Comment a post")
		fmt.Println("10. Write a post")
		fmt.Println("11. Log out")
		fmt.Println("12. Delete your profile")
		fmt.Println("13. Exit")
		fmt.Print("\nSelect an option: ")

		switch a.readLine() {
		case "0":
			a.signUp(ctx, sess)
		case "1":
			a.logIn(ctx, sess)
		case "2":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.showFeed(ctx, current) })
		case "3":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.findUser(ctx, current) })
		case "4":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.subscribe(ctx, sess, current) })
		case "5":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.unsubscribe(ctx, sess, current) })
		case "6":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.postsOfUser(ctx) })
		case "7":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.likePost(ctx, current) })
		case "8":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.unlikePost(ctx, current) })
		case "9":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.commentPost(ctx, current) })
		case "10":
			a.withUser(sess, loginMessage, func(current *identity.Person) { a.writePost(ctx, current) })
		case "11":
			a.withUser(sess, loginMessage, func(current *identity.Person) {
				sess.current = nil
				fmt.Println("You have logged out successfully.")
			})
		case "12":
			a.withUser(sess, loginMessage, func(current *identity.Person) {
				if err := a.coordinator.DeleteUser(ctx, current); err != nil {
					fmt.Println(err)
					return
				}
				sess.current = nil
				fmt.Println("You have successfully deleted your profile.")
			})
		case "13":
			fmt.Println("Goodbye.")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func (a *cli) withUser(sess *session, loginMessage string, fn func(current *identity.Person)) {
	if sess.current == nil {
		fmt.Println(loginMessage)
		return
	}
	fn(sess.current)
}

func (a *cli) readLine() string {
	if !a.in.Scan() {
		return "13" // EOF exits
	}
	return a.in.Text()
}

func (a *cli) prompt(label string) string {
	fmt.Print(label)
	return a.readLine()
}

func (a *cli) signUp(ctx context.Context, sess *session) {
	firstName := a.prompt("Enter your name: ")
	lastName := a.prompt("Enter your surname: ")
	email := a.prompt("Enter your email: ")
	password := a.prompt("Enter your password: ")

	fmt.Println("Enter your interests (one per line). Type '.' to finish:")
	var interests []string
	for {
		line := a.readLine()
		if line == "." {
			break
		}
		interests = append(interests, line)
	}

	person, err := a.coordinator.SignUp(ctx, firstName, lastName, email, password, interests)
	if err != nil {
		fmt.Println(err)
		return
	}
	// The session user only changes on confirmed success
	sess.current = person
	fmt.Println("\nYou signed up successfully.")

	if posts, err := a.store.PostsOfAll(ctx); err == nil {
		a.showPosts(ctx, posts)
	}
}

func (a *cli) logIn(ctx context.Context, sess *session) {
	email := a.prompt("Enter your email: ")
	password := a.prompt("Enter your password: ")

	person, err := a.coordinator.LogIn(ctx, email, password)
	if err != nil {
		fmt.Println(err)
		return
	}
	sess.current = person
	fmt.Printf("\nLogged in as %s\n", person.DisplayName())
	a.showProfile(ctx, person)

	posts, err := a.store.FeedOf(ctx, person)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nPosts of users you are following:")
	a.showPosts(ctx, posts)
}

func (a *cli) showFeed(ctx context.Context, current *identity.Person) {
	posts, err := a.store.FeedOf(ctx, current)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nPosts of users you are following:")
	a.showPosts(ctx, posts)
}

func (a *cli) findUser(ctx context.Context, current *identity.Person) {
	firstName := a.prompt("Enter the name of the user you want to find: ")
	lastName := a.prompt("Enter the surname of the user you want to find: ")

	target, err := a.store.FindByFullName(ctx, firstName, lastName)
	if err != nil {
		fmt.Println(err)
		return
	}

	a.showProfile(ctx, target)
	a.showRelationship(ctx, current, target)
	a.showShortestPath(ctx, current, target)
}

func (a *cli) subscribe(ctx context.Context, sess *session, current *identity.Person) {
	firstName := a.prompt("Enter the name of the user you want to subscribe to: ")
	lastName := a.prompt("Enter the surname of the user you want to subscribe to: ")

	target, err := a.store.FindByFullName(ctx, firstName, lastName)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := a.coordinator.Follow(ctx, current, target); err != nil {
		fmt.Println(err)
		return
	}
	a.refreshSession(ctx, sess)
	fmt.Printf("\nYou are now following %s.\n", target.DisplayName())
}

func (a *cli) unsubscribe(ctx context.Context, sess *session, current *identity.Person) {
	firstName := a.prompt("Enter the name of the user you want to unsubscribe from: ")
	lastName := a.prompt("Enter the surname of the user you want to unsubscribe from: ")

	target, err := a.store.FindByFullName(ctx, firstName, lastName)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := a.coordinator.Unfollow(ctx, current, target); err != nil {
		fmt.Println(err)
		return
	}
	a.refreshSession(ctx, sess)
	fmt.Printf("\nYou are not following %s anymore.\n", target.DisplayName())
}

func (a *cli) postsOfUser(ctx context.Context) {
	firstName := a.prompt("Enter the name of the user whose posts you want to see: ")
	lastName := a.prompt("Enter the surname of the user whose posts you want to see: ")

	target, err := a.store.FindByFullName(ctx, firstName, lastName)
	if err != nil {
		fmt.Println(err)
		return
	}
	posts, err := a.store.PostsOfUser(ctx, target.ID)
	if err != nil {
		fmt.Println(err)
		return
	}
	a.showPosts(ctx, posts)
}

func (a *cli) likePost(ctx context.Context, current *identity.Person) {
	postID := a.prompt("Enter the ID of a post you want to like: ")
	if err := a.store.LikePost(ctx, current.ID, postID); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nYou liked the post.")
}

func (a *cli) unlikePost(ctx context.Context, current *identity.Person) {
	postID := a.prompt("Enter the ID of a post you want to remove your like from: ")
	if err := a.store.UnlikePost(ctx, current.ID, postID); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nYou removed your like from the post.")
}

func (a *cli) commentPost(ctx context.Context, current *identity.Person) {
	postID := a.prompt("Enter the ID of the post you want to comment: ")
	if _, err := a.store.FindPostByID(ctx, postID); err != nil {
		fmt.Println(err)
		return
	}

	text := a.prompt("Enter the text of the comment: ")
	if err := a.store.AddComment(ctx, current.ID, postID, text); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nComment created successfully.")
}

func (a *cli) writePost(ctx context.Context, current *identity.Person) {
	title := a.prompt("Enter the text of the post: ")
	if _, err := a.store.CreatePost(ctx, current.ID, title); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("\nPost created successfully.")
}

func (a *cli) refreshSession(ctx context.Context, sess *session) {
	if sess.current == nil {
		return
	}
	if fresh, err := a.store.FindByID(ctx, sess.current.ID); err == nil {
		sess.current = fresh
	}
}

func (a *cli) showProfile(ctx context.Context, person *identity.Person) {
	fmt.Printf("\nName: %s\n", person.DisplayName())
	fmt.Printf("E-mail: %s\n", person.Email)

	fmt.Println("Interests:")
	for _, interest := range person.Interests {
		fmt.Printf("\t%s\n", interest)
	}

	fmt.Println("Subscribers:")
	a.showNames(ctx, person.Subscribers)

	fmt.Println("Following:")
	a.showNames(ctx, person.Following)
}

// showNames resolves IDs to display names, skipping entries left behind by
// deleted accounts
func (a *cli) showNames(ctx context.Context, ids []string) {
	for _, id := range ids {
		if p, err := a.store.FindByID(ctx, id); err == nil {
			fmt.Printf("\t%s\n", p.DisplayName())
		}
	}
}

func (a *cli) showPosts(ctx context.Context, posts []identity.Post) {
	for i := range posts {
		post := &posts[i]
		fmt.Printf("\nText: %s\n", post.Title)

		if author, err := a.store.FindByID(ctx, post.UserID); err == nil {
			fmt.Printf("Author: %s\n", author.DisplayName())
		}
		fmt.Printf("Post Id: %s\n", post.ID)
		fmt.Printf("Date: %s\n", post.PostDate.Format(time.RFC1123))

		fmt.Println("Likes:")
		a.showNames(ctx, post.Likes)

		fmt.Println("Comments:")
		for _, comment := range post.Comments {
			if author, err := a.store.FindByID(ctx, comment.UserID); err == nil {
				fmt.Printf("   %s: %q\n", author.DisplayName(), comment.Text)
			}
		}
	}
}

func (a *cli) showRelationship(ctx context.Context, current, target *identity.Person) {
	rel, err := a.queries.RelationshipOf(ctx, current, target)
	if err != nil {
		fmt.Println(err)
		return
	}

	switch rel {
	case social.RelationshipSelf:
		fmt.Println("\nThis is your profile.")
	case social.RelationshipFollowedBy:
		fmt.Println("\nRelationship: This person follows you.")
	case social.RelationshipFollowing:
		fmt.Println("\nRelationship: You follow this person.")
	default:
		fmt.Println("\nYou don't have any relationship with this person.")
	}
}

func (a *cli) showShortestPath(ctx context.Context, current, target *identity.Person) {
	path, err := a.queries.ShortestPath(ctx, current, target)
	if err != nil {
		fmt.Println(err)
		return
	}

	switch {
	case len(path) == 1:
		fmt.Println("\nShortest path: 0.")
	case path == nil:
		fmt.Println("\nNo path between you and this person.")
	default:
		fmt.Print("\nShortest path:\n ")
		for i, hop := range path {
			if i > 0 {
				fmt.Print(" - ")
			}
			fmt.Print(hop.DisplayName())
		}
		fmt.Println()
	}
}
