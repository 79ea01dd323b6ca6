// Package main runs the interactive nanolink client: sign in, shorten
// URLs, watch link activity and resolve short codes.
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/client/activity"
	"github.com/nanolink/nanolink/internal/client/gateway"
	"github.com/nanolink/nanolink/internal/client/prompt"
	"github.com/nanolink/nanolink/internal/client/resolver"
	"github.com/nanolink/nanolink/internal/client/session"
	"github.com/nanolink/nanolink/internal/config"
	"github.com/nanolink/nanolink/internal/logger"
	"github.com/nanolink/nanolink/internal/models"
)

// copyFlagTTL is how long a copy acknowledgment stays visible.
const copyFlagTTL = 2 * time.Second

var (
	version   string
	buildDate string
)

// app bundles the client components the shell commands operate on.
type app struct {
	gw       *gateway.Gateway
	store    *session.Store
	syncer   *activity.Synchronizer
	copies   *activity.CopyTracker
	linkBase string
	log      *zap.Logger
}

// repl runs the interactive shell loop.
func repl(a *app) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("nanolink> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		ctx := context.Background()

		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, register, login, logout, whoami, shorten, list, open <code>, copy <id> short|long, delete <id>, exit")
		case "register":
			a.authenticate(ctx, a.gw.Register)
		case "login":
			a.authenticate(ctx, a.gw.Login)
		case "logout":
			a.store.Logout()
			fmt.Println("Logged out")
		case "whoami":
			if sess := a.store.Current(); sess != nil {
				fmt.Println(sess.Username)
			} else {
				fmt.Println("Not logged in")
			}
		case "shorten":
			a.shorten(ctx)
		case "list":
			a.list()
		case "open":
			if len(args) < 2 {
				fmt.Println("Usage: open <code>")
				continue
			}
			a.open(ctx, args[1])
		case "copy":
			if len(args) < 3 {
				fmt.Println("Usage: copy <id> short|long")
				continue
			}
			a.copy(args[1], activity.CopyField(args[2]))
		case "delete":
			if len(args) < 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			a.syncer.Delete(ctx, args[1])
			fmt.Println("Link deleted")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// authenticate prompts for credentials, runs the given auth call and
// publishes the resulting session. Server error bodies are shown
// verbatim, including any registration hint.
func (a *app) authenticate(ctx context.Context, call func(context.Context, models.Credentials) (*models.Session, error)) {
	creds := prompt.ForCredentials()
	sess, err := call(ctx, creds)
	if err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			fmt.Println(apiErr.Message)
			if apiErr.Suggestion != "" {
				fmt.Println("Hint:", apiErr.Suggestion)
			}
		} else {
			fmt.Println("Request failed:", err)
		}
		return
	}
	a.store.Login(*sess)
	fmt.Println("Signed in as", sess.Username)
}

func (a *app) shorten(ctx context.Context) {
	sess := a.store.Current()
	if sess == nil {
		fmt.Println("Please login first")
		return
	}
	req := prompt.ForShorten(sess.ID)
	resp, err := a.gw.Shorten(ctx, req)
	if err != nil {
		fmt.Println("Failed to create link:", err)
		return
	}
	fmt.Println("Short URL:", resp.ShortUrl)
	fmt.Println("QR code:", models.QRCodeURL(req.LongUrl, 200))
}

func (a *app) list() {
	records := a.syncer.Records()
	if len(records) == 0 {
		fmt.Println("No activity")
		return
	}
	now := time.Now()
	fmt.Printf("%-38s %-8s %-8s %-8s %s\n", "ID", "CODE", "CLICKS", "STATUS", "TARGET")
	for _, rec := range records {
		target := rec.LongUrl
		if a.copies.Copied(rec.ID, activity.CopyFieldShort) {
			target += "  [short copied]"
		}
		if a.copies.Copied(rec.ID, activity.CopyFieldLong) {
			target += "  [long copied]"
		}
		fmt.Printf("%-38s %-8s %-8d %-8s %s\n", rec.ID, rec.ShortCode, rec.Clicks, rec.Status(now), target)
	}
}

// open resolves a short code the way a shared link would: look it up,
// register the click and hand off navigation.
func (a *app) open(ctx context.Context, code string) {
	res := resolver.New(a.gw, func(url string) {
		fmt.Println("Redirecting to", url)
	}, a.log).Resolve(ctx, code)

	if res.State == resolver.StateError {
		fmt.Println("ERROR:", res.Message)
	}
}

func (a *app) copy(id string, field activity.CopyField) {
	if field != activity.CopyFieldShort && field != activity.CopyFieldLong {
		fmt.Println("Usage: copy <id> short|long")
		return
	}
	for _, rec := range a.syncer.Records() {
		if rec.ID != id {
			continue
		}
		value := rec.LongUrl
		if field == activity.CopyFieldShort {
			value = a.linkBase + "/" + rec.ShortCode
		}
		a.copies.Mark(id, field)
		fmt.Println("Copied:", value)
		return
	}
	fmt.Println("Link not found")
}

func main() {
	options := config.Parse()

	fmt.Printf("nanolink client\nVersion: %s\nBuild Date: %s\n",
		cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Println("failed to init logger:", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	gw := gateway.New(&nethttp.Client{Timeout: 10 * time.Second}, options.APIBaseURL, zapLogger)
	store := session.NewStore(options.SessionFile, zapLogger)
	syncer := activity.New(gw, options.PollInterval, zapLogger)
	defer syncer.Stop()

	// The synchronizer follows the session: polling starts on login and
	// restarts from scratch when the identity changes.
	store.Subscribe(syncer.SetSession)
	store.Restore()

	a := &app{
		gw:       gw,
		store:    store,
		syncer:   syncer,
		copies:   activity.NewCopyTracker(copyFlagTTL),
		linkBase: options.LinkBaseURL,
		log:      zapLogger,
	}
	repl(a)
}
