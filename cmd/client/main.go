package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vedran77/fitlog/internal/client/api"
	"github.com/vedran77/fitlog/internal/client/session"
	"github.com/vedran77/fitlog/internal/client/tokenstore"
)

const usage = `Usage: fitlog <command> [args]

Commands:
  register <username> <display name> <password>
  login <username> <password>
  logout
  whoami
  list
  get <id>
  add <description>
  update <id> <description>
  delete <id>
`

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	dbPath := flag.String("db", defaultStorePath(), "path to local session store")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	if dir := filepath.Dir(*dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			log.Fatal(err)
		}
	}

	store, err := tokenstore.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	client := api.New(*server)
	sess := session.NewManager(store, client)
	sess.Initialize(ctx)

	if err := run(ctx, args, client, store, sess); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, client *api.Client, store *tokenstore.Store, sess *session.Manager) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "register":
		if len(args) != 3 {
			return errors.New("usage: register <username> <display name> <password>")
		}
		if err := client.Register(ctx, args[0], args[1], args[2]); err != nil {
			var verr *api.ValidationError
			if errors.As(err, &verr) {
				for field, msg := range verr.Fields {
					fmt.Printf("%s: %s\n", field, msg)
				}
				return errors.New("registration rejected")
			}
			return err
		}
		fmt.Println("Registered. You can now log in.")

	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <username> <password>")
		}
		token, err := client.Login(ctx, args[0], args[1])
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return errors.New("invalid username or password")
			}
			return err
		}
		if err := sess.MarkAuthenticated(ctx, token); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", args[0])

	case "logout":
		if err := sess.MarkLoggedOut(ctx); err != nil {
			return err
		}
		fmt.Println("Logged out")

	case "whoami":
		state := sess.State()
		if !state.Authenticated {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", state.User.Username, state.User.DisplayName)

	case "list":
		token, err := requireToken(ctx, store)
		if err != nil {
			return err
		}
		records, err := client.ListRecords(ctx, token)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No workout records yet")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%6d  %s  %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.Description)
		}

	case "get":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		token, err := requireToken(ctx, store)
		if err != nil {
			return err
		}
		rec, err := client.GetRecord(ctx, token, id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d by %s\n%s\ncreated %s", rec.ID, rec.OwnerDisplayName, rec.Description, rec.CreatedAt.Format("2006-01-02 15:04"))
		if rec.UpdatedAt != nil {
			fmt.Printf(", updated %s", rec.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()

	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <description>")
		}
		token, err := requireToken(ctx, store)
		if err != nil {
			return err
		}
		rec, err := client.CreateRecord(ctx, token, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Created record #%d\n", rec.ID)

	case "update":
		if len(args) != 2 {
			return errors.New("usage: update <id> <description>")
		}
		id, err := parseID(args)
		if err != nil {
			return err
		}
		token, err := requireToken(ctx, store)
		if err != nil {
			return err
		}
		if err := client.UpdateRecord(ctx, token, id, args[1]); err != nil {
			return err
		}
		fmt.Printf("Updated record #%d\n", id)

	case "delete":
		id, err := parseID(args)
		if err != nil {
			return err
		}
		token, err := requireToken(ctx, store)
		if err != nil {
			return err
		}
		if err := client.DeleteRecord(ctx, token, id); err != nil {
			return err
		}
		fmt.Printf("Deleted record #%d\n", id)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}

	return nil
}

func requireToken(ctx context.Context, store *tokenstore.Store) (string, error) {
	token, err := store.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("not logged in")
	}
	return token, nil
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("record id required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q", args[0])
	}
	return id, nil
}

func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fitlog.db"
	}
	return filepath.Join(dir, "fitlog", "fitlog.db")
}
