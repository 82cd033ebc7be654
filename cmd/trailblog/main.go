package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"trailblog/internal/api"
	"trailblog/internal/assist"
	"trailblog/internal/core/domain"
	"trailblog/internal/core/ports"
	"trailblog/internal/imageurl"
	"trailblog/internal/storage"
	"trailblog/internal/store"
	"trailblog/internal/ui/console"
	"trailblog/internal/ui/telegram"
)

const pageSize = 10

type app struct {
	client   *api.Client
	posts    *store.PostStore
	comments *store.CommentStore
	auth     *store.AuthStore
	panel    *assist.Panel
	reader   *bufio.Reader
	page     int
	search   string
}

func main() {
	godotenv.Load()
	fmt.Println("🧭 trailblog client starting...")

	ctx := context.Background()

	sessions := openSessionStorage(ctx)

	baseURL := os.Getenv("TRAILBLOG_API_URL")
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	client, err := api.New(baseURL, sessions)
	if err != nil {
		log.Fatal(err)
	}

	a := &app{
		client:   client,
		posts:    store.NewPostStore(client),
		comments: store.NewCommentStore(client),
		auth:     store.NewAuthStore(client),
		reader:   bufio.NewReader(os.Stdin),
	}
	// Keep the denormalized comment counter on posts in sync with the
	// authoritative comment lists.
	a.comments.SetCountCallback(a.posts.SetCommentCount)

	a.panel = assist.NewPanel(client, pickUI())

	if err := a.auth.RestoreSession(ctx); err == nil {
		if user := a.auth.CurrentUser(); user != nil {
			fmt.Printf("👋 Welcome back, %s\n", user.Username)
		}
	}

	if err := a.posts.Fetch(ctx, 0, pageSize, ""); err != nil {
		fmt.Printf("⚠️  Could not reach %s: %v\n", baseURL, err)
	} else {
		a.printPosts()
	}

	fmt.Println("Type 'help' for commands.")
	a.loop(ctx)
}

func openSessionStorage(ctx context.Context) ports.Storage {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		if pg, err := storage.NewPostgresStorage(ctx, dbURL); err == nil {
			fmt.Println("🐘 Session storage: PostgreSQL")
			return pg
		}
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		if rs, err := storage.NewRedisStorage(ctx, redisURL); err == nil {
			fmt.Println("🔑 Session storage: Redis")
			return rs
		}
	}
	js, err := storage.NewJSONStorage("data/session.json")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("📄 Session storage: JSON file")
	return js
}

func pickUI() ports.Interaction {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if token != "" && chatID != "" {
		if ui, err := telegram.New(token, chatID); err == nil {
			fmt.Println("💬 Draft approval: Telegram")
			return ui
		}
	}
	return console.New()
}

func (a *app) loop(ctx context.Context) {
	for {
		fmt.Print("> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "list":
			a.cmdList(ctx, args)
		case "search":
			a.cmdSearch(ctx, args)
		case "show":
			a.cmdShow(ctx, args)
		case "like":
			a.cmdLike(ctx, args)
		case "comments":
			a.cmdComments(ctx, args)
		case "comment":
			a.cmdComment(ctx, args)
		case "uncomment":
			a.cmdUncomment(ctx, args)
		case "compose":
			a.cmdCompose(ctx)
		case "delete":
			a.cmdDelete(ctx, args)
		case "trending":
			a.cmdTrending(ctx)
		case "similar":
			a.cmdSimilar(ctx, args)
		case "recommend":
			a.cmdRecommend(ctx, args)
		case "upload":
			a.cmdUpload(ctx, args)
		case "insights":
			a.cmdInsights(ctx, args)
		case "weather":
			a.cmdWeather(ctx, args)
		case "login":
			a.cmdLogin(ctx, args)
		case "register":
			a.cmdRegister(ctx)
		case "logout":
			a.cmdLogout()
		case "whoami":
			a.cmdWhoami()
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help'.\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`Commands:
  list [page]            show a page of posts
  search <terms>         search posts
  show <id>              show one post
  like <id>              like a post
  comments <id>          list comments on a post
  comment <id> <text>    add a comment
  uncomment <id> <cid>   delete a comment
  compose                write a new post with AI assistance
  delete <id>            delete a post you own
  trending               AI trending posts
  similar <id>           posts similar to one
  recommend <id>         recommendations based on a post
  upload <path>          upload an image, prints its URL
  insights <place>       travel insights for a destination
  weather <place>        weather summary for a destination
  login <username>       log in (password prompted)
  register               create an account
  logout                 drop the session
  whoami                 current session
  quit                   exit
`)
}

func (a *app) cmdList(ctx context.Context, args []string) {
	page := 0
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			page = n - 1
		}
	}
	a.page = page
	if err := a.posts.Fetch(ctx, page*pageSize, pageSize, a.search); err != nil {
		fmt.Println("❌", err)
		return
	}
	a.printPosts()
}

func (a *app) cmdSearch(ctx context.Context, args []string) {
	a.search = strings.Join(args, " ")
	a.page = 0
	if err := a.posts.Fetch(ctx, 0, pageSize, a.search); err != nil {
		fmt.Println("❌", err)
		return
	}
	a.printPosts()
}

func (a *app) printPosts() {
	posts := a.posts.Posts()
	if len(posts) == 0 {
		fmt.Println("No posts.")
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %s — %s  (❤ %d, 💬 %d)\n", p.ID, p.Title, p.Author, p.Likes, p.Comments)
	}
	fmt.Printf("Page %d of %d posts", a.page+1, a.posts.Total())
	if a.posts.HasMore() {
		fmt.Print(" (more available)")
	}
	fmt.Println()
}

func (a *app) cmdShow(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	post, err := a.client.GetPost(ctx, id)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("#%d  %s — by %s (%s)\n", post.ID, post.Title, post.Author, post.CreatedAt.Format("2006-01-02"))
	if post.Description != "" {
		fmt.Println(post.Description)
	}
	fmt.Printf("\n%s\n", post.Content)
	if post.Tags != "" {
		fmt.Println("Tags:", post.Tags)
	}
	if post.Image != "" {
		fmt.Println("Image:", imageurl.Resolve(a.client.BaseURL, post.Image, 800, 400))
	}
	fmt.Printf("❤ %d   💬 %d\n", post.Likes, post.Comments)
}

func (a *app) cmdLike(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	post, err := a.posts.Like(ctx, id)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("❤ %d likes on #%d\n", post.Likes, post.ID)
}

func (a *app) cmdComments(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	comments, cached := a.comments.Cached(id)
	if !cached {
		var err error
		comments, err = a.comments.Get(ctx, id)
		if err != nil {
			fmt.Println("❌", err)
			return
		}
	}
	if len(comments) == 0 {
		fmt.Println("No comments yet.")
		return
	}
	for _, c := range comments {
		fmt.Printf("[%d] %s: %s\n", c.ID, c.Author, c.Content)
	}
}

func (a *app) cmdComment(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: comment <id> <text>")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Bad post id:", args[0])
		return
	}
	author := "anonymous"
	if user := a.auth.CurrentUser(); user != nil {
		author = user.Username
	}
	comment, err := a.comments.Create(ctx, id, strings.Join(args[1:], " "), author)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("💬 Comment %d added to post #%d\n", comment.ID, id)
}

func (a *app) cmdUncomment(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: uncomment <post-id> <comment-id>")
		return
	}
	postID, err1 := strconv.Atoi(args[0])
	commentID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Bad id.")
		return
	}
	if err := a.comments.Delete(ctx, postID, commentID); err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Println("🗑  Comment deleted.")
}

func (a *app) cmdCompose(ctx context.Context) {
	if !a.auth.IsAuthenticated() {
		fmt.Println("Log in first.")
		return
	}

	title := a.prompt("Title (blank for AI suggestion): ")
	fmt.Println("Content (finish with a single '.' line):")
	var lines []string
	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\n")
		if line == "." {
			break
		}
		lines = append(lines, line)
	}

	draft := domain.Draft{Title: title, Content: strings.Join(lines, "\n")}
	enhanced, err := a.panel.Enhance(ctx, draft)
	if err != nil {
		fmt.Println("❌", err)
		return
	}

	post, err := a.posts.Create(ctx, enhanced)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("🚀 Published post #%d: %s\n", post.ID, post.Title)
}

func (a *app) cmdDelete(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	if err := a.posts.Delete(ctx, id); err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("🗑  Post #%d deleted.\n", id)
}

func (a *app) cmdTrending(ctx context.Context) {
	posts, err := a.client.TrendingAI(ctx, 5)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %s — %s (❤ %d)\n", p.ID, p.Title, p.Author, p.Likes)
	}
}

func (a *app) cmdSimilar(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	posts, err := a.client.SimilarPosts(ctx, id, 5)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %s — %s\n", p.ID, p.Title, p.Author)
	}
}

func (a *app) cmdRecommend(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	posts, err := a.client.Recommendations(ctx, id, 5)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	for _, p := range posts {
		fmt.Printf("#%d  %s — %s\n", p.ID, p.Title, p.Author)
	}
}

func (a *app) cmdUpload(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: upload <path>")
		return
	}
	file, err := os.Open(args[0])
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	defer file.Close()

	url, err := a.client.UploadImage(ctx, filepath.Base(args[0]), file)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Println("🖼 ", imageurl.Resolve(a.client.BaseURL, url, 800, 400))
}

func (a *app) cmdInsights(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: insights <destination>")
		return
	}
	insights, err := a.client.TravelInsights(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Println(insights)
}

func (a *app) cmdWeather(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: weather <destination>")
		return
	}
	summary, err := a.client.WeatherInsights(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Println(summary)
}

func (a *app) cmdLogin(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: login <username>")
		return
	}
	a.auth.ClearError()
	password := a.prompt("Password: ")
	if err := a.auth.Login(ctx, args[0], password); err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("✅ Logged in as %s\n", a.auth.CurrentUser().Username)
}

func (a *app) cmdRegister(ctx context.Context) {
	username := a.prompt("Username: ")
	email := a.prompt("Email: ")
	password := a.prompt("Password: ")
	user, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Printf("✅ Account %s created. Log in to start posting.\n", user.Username)
}

func (a *app) cmdLogout() {
	if err := a.auth.Logout(); err != nil {
		fmt.Println("❌", err)
		return
	}
	fmt.Println("👋 Logged out.")
}

func (a *app) cmdWhoami() {
	if user := a.auth.CurrentUser(); user != nil {
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		return
	}
	fmt.Println("Not logged in.")
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, _ := a.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func parseID(args []string) (int, bool) {
	if len(args) == 0 {
		fmt.Println("Post id required.")
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("Bad post id:", args[0])
		return 0, false
	}
	return id, true
}
