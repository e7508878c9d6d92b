package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/authbridge/gateway/internal/auth"
	"github.com/authbridge/gateway/internal/config"
	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/remote"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
)

// flowcheck drives the signup, sign-in and reconciliation lifecycle as a
// single client against the configured remote service and reports each step.
// Useful for verifying a deployment end to end without a browser.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	email := flag.String("email", "", "email for the checked account")
	password := flag.String("password", "", "password for the checked account")
	signup := flag.Bool("signup", false, "also run the signup step (requires a fresh email)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: flowcheck -email a@x.com -password secret [-signup]")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	client := remote.New(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.Timeout)
	if !client.Configured() {
		logger.Fatalf("remote service is not configured; set REMOTE_SERVICE_URL and REMOTE_SERVICE_KEY")
	}

	stream := sessions.NewStream()
	store := sessions.NewStore(stream)
	defer store.Close()

	repo := profiles.NewRemoteRepository(client)
	reconciler := profiles.NewReconciler(repo)
	unsub := reconciler.Attach(stream, func(ident sessions.Identity, out profiles.Outcome) {
		fmt.Printf("reconcile %s: %s\n", ident.ID, out)
	})
	defer unsub()

	svc := auth.NewService(client, repo, stream, func() string { return cfg.SiteURL("") })

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// restore resolves the store's loading state before anything else runs
	if _, err := svc.Restore(ctx, ""); err != nil {
		logger.Warnf("restore: %v", err)
	}
	fmt.Printf("restored: loading=%v authenticated=%v\n", store.IsLoading(), store.Session() != nil)

	if *signup {
		res, err := svc.SignUp(ctx, auth.SignUpInput{
			Email:      *email,
			Password:   *password,
			FirstName:  "Flow",
			LastName:   "Check",
			Profession: "IT Professional",
		})
		if err != nil {
			logger.Fatalf("signup failed: %v", err)
		}
		fmt.Printf("signup ok: identity=%s\n", res.Identity.ID)
		if res.ProfileWarning != nil {
			fmt.Printf("signup warning: %v\n", res.ProfileWarning)
		}
	}

	sess, err := svc.SignIn(ctx, *email, *password)
	if err != nil {
		logger.Fatalf("sign-in failed: %v", err)
	}
	fmt.Printf("sign-in ok: identity=%s expires=%s\n", sess.Identity.ID, sess.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("store: authenticated=%v\n", store.Session() != nil)

	p, err := repo.GetByID(ctx, sess.Identity.ID)
	if err != nil {
		logger.Fatalf("profile lookup failed: %v", err)
	}
	if p == nil {
		fmt.Println("profile: missing")
	} else {
		fmt.Printf("profile: %s %s (%s)\n", p.FirstName, p.LastName, p.Profession)
	}

	if err := svc.SignOut(ctx, sess.AccessToken); err != nil {
		logger.Warnf("sign-out: %v", err)
	}
	fmt.Printf("signed out: authenticated=%v\n", store.Session() != nil)
}
