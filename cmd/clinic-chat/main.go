package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/medibot/clinic-assistant/internal/chat"
	"github.com/medibot/clinic-assistant/internal/feed"
	"github.com/medibot/clinic-assistant/internal/gateway"
	"github.com/medibot/clinic-assistant/internal/session"
	"github.com/medibot/clinic-assistant/internal/view"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	baseURL := getEnv("CHAT_API_BASE_URL", "http://localhost:8080")
	sessionPath := getEnv("CHAT_SESSION_FILE", defaultSessionPath())

	kv, err := session.NewFileKV(sessionPath)
	if err != nil {
		log.Fatalf("open session file: %v", err)
	}
	store := session.NewStore(kv)
	gw := gateway.New(baseURL)

	ctx := context.Background()

	switch view.Select(store.CurrentRole()) {
	case view.DoctorFeed:
		runDoctorFeed(ctx, gw, store)
	default:
		runPatientChat(ctx, gw, store)
	}
}

// runDoctorFeed loads the appointment window once and prints it as a
// transcript. Retrying is just running the command again.
func runDoctorFeed(ctx context.Context, gw *gateway.Client, store *session.Store) {
	fmt.Printf("Signed in as %s. Loading upcoming appointments...\n\n", store.DisplayName())

	f := feed.New(gw)
	f.Load(ctx, store.Token(), 30)

	if f.State() == feed.StateError {
		fmt.Println(f.ErrText())
		return
	}
	for _, m := range f.Transcript() {
		printMessage(m)
	}
}

func runPatientChat(ctx context.Context, gw *gateway.Client, store *session.Store) {
	ctrl := chat.NewController(store, gw)
	ctrl.OnAppend(printMessage)

	if store.CurrentRole() == session.RolePatient {
		fmt.Printf("Signed in as %s.\n", store.DisplayName())
	} else {
		fmt.Println("Not signed in. Use /login <identity-token> or /doctor <user> <pass>.")
	}
	fmt.Println("Type a message to book an appointment, or /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return

		case strings.HasPrefix(line, "/login "):
			identityToken := strings.TrimSpace(strings.TrimPrefix(line, "/login "))
			creds, err := gw.ExchangeIdentity(ctx, identityToken)
			if err != nil {
				fmt.Println("Sign-in failed. Check the token and try again.")
				continue
			}
			store.LoginPatient(creds.Token, creds.DisplayName)
			ctrl.LoginSuccess()

		case strings.HasPrefix(line, "/doctor "):
			fields := strings.Fields(strings.TrimPrefix(line, "/doctor "))
			if len(fields) != 2 {
				fmt.Println("Usage: /doctor <username> <password>")
				continue
			}
			creds, err := gw.DoctorLogin(ctx, fields[0], fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			store.LoginDoctor(creds.Token, creds.DisplayName)
			runDoctorFeed(ctx, gw, store)
			return

		case line == "/logout":
			if token := store.Token(); token != "" {
				// Best effort; the local session is cleared either way.
				_ = gw.Logout(ctx, token)
			}
			store.LogoutPatient()
			ctrl.Logout()

		default:
			<-ctrl.Submit(ctx, line)
		}
	}
}

func printMessage(m chat.Message) {
	prefix := "you"
	if m.Sender == chat.SenderBot {
		prefix = "bot"
	}
	for i, line := range strings.Split(m.Text, "\n") {
		if i == 0 {
			fmt.Printf("%s: %s\n", prefix, line)
		} else {
			fmt.Printf("     %s\n", line)
		}
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clinic-chat.json"
	}
	return filepath.Join(home, ".clinic-chat.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
