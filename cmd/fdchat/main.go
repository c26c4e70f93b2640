package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"fdchat/internal/chat"
	"fdchat/internal/config"
	"fdchat/internal/gateway"
	"fdchat/internal/prefs"
	"fdchat/internal/remote"
	"fdchat/internal/store"
)

func main() {
	ctx := context.Background()
	godotenv.Load(".env")
	cfg := config.FromEnv()

	prefStore, err := prefs.New(cfg.PrefsPath)
	if err != nil {
		slog.Error("Failed to open preferences store", "error", err)
	}

	reader := bufio.NewReader(os.Stdin)
	accountID := resolveAccountID(reader, prefStore)
	if accountID == "" {
		log.Fatal("An account id is required")
	}

	remoteClient, err := remote.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create conversation store client: %s", err)
	}
	gatewayClient := gateway.NewClient(cfg)

	chatStore := store.New(accountID, remoteClient, gatewayClient)
	if err := chatStore.LoadHistory(ctx); err != nil {
		slog.Error("Failed to load history, starting with a fresh session", "error", err)
	}
	saveSetting(prefStore, prefs.KeyLastAccount, accountID)

	fmt.Printf("Signed in as %s. Type a message, or /help for commands.\n", accountID)
	printMessages(chatStore.Messages(chatStore.CurrentSession()))

	for {
		fmt.Printf("[%s] > ", chatStore.Status())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)

		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case line == "/help":
			printHelp()
		case line == "/new":
			chatStore.NewSession()
			printMessages(chatStore.Messages(chatStore.CurrentSession()))
		case line == "/sessions":
			printSessions(chatStore)
		case strings.HasPrefix(line, "/switch "):
			switchSession(ctx, chatStore, strings.TrimPrefix(line, "/switch "))
		case strings.HasPrefix(line, "/function "):
			name := strings.TrimPrefix(line, "/function ")
			chatStore.SetFunctionName(name)
			saveSetting(prefStore, prefs.KeyLastFunctionName, strings.TrimSpace(name))
		case line == "/approve":
			runApprove(ctx, chatStore, prefStore)
		case line == "/health":
			if gatewayClient.Health(ctx) {
				fmt.Println("Webhook is up")
			} else {
				fmt.Println("Webhook is unreachable")
			}
		default:
			runSend(ctx, chatStore, prefStore, accountID, line)
		}
	}
}

func resolveAccountID(reader *bufio.Reader, prefStore *prefs.Store) string {
	if len(os.Args) > 1 {
		return strings.TrimSpace(os.Args[1])
	}
	if prefStore != nil {
		if last := prefStore.ReadSetting(prefs.KeyLastAccount); last != "" {
			return last
		}
	}
	fmt.Print("Account ID: ")
	accountID, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(accountID)
}

func saveSetting(prefStore *prefs.Store, key, value string) {
	if prefStore == nil {
		return
	}
	if err := prefStore.WriteSetting(key, value); err != nil {
		slog.Error("Failed to save setting", "key", key, "error", err)
	}
}

func currentFunctionName(chatStore *store.Store, prefStore *prefs.Store) string {
	if name := chatStore.FunctionName(chatStore.CurrentSession()); name != "" {
		return name
	}
	if prefStore != nil {
		return prefStore.ReadSetting(prefs.KeyLastFunctionName)
	}
	return ""
}

func runSend(ctx context.Context, chatStore *store.Store, prefStore *prefs.Store, accountID, text string) {
	functionName := currentFunctionName(chatStore, prefStore)
	if functionName == "" {
		fmt.Println("Set a function name first: /function <name>")
		return
	}
	chatStore.SetFunctionName(functionName)

	if err := chatStore.Send(ctx, functionName, text); err != nil {
		if errors.Is(err, chat.ErrBusy) {
			fmt.Println("A request is already in flight for this session.")
			return
		}
	}
	if prefStore != nil {
		if err := prefStore.AppendRequest(accountID, functionName, text); err != nil {
			slog.Error("Failed to record request", "error", err)
		}
	}
	printLastMessage(chatStore)
}

func runApprove(ctx context.Context, chatStore *store.Store, prefStore *prefs.Store) {
	if err := chatStore.Approve(ctx, currentFunctionName(chatStore, prefStore)); err != nil {
		if errors.Is(err, chat.ErrBusy) {
			fmt.Println("A request is already in flight for this session.")
			return
		}
	}
	printLastMessage(chatStore)
}

func switchSession(ctx context.Context, chatStore *store.Store, arg string) {
	arg = strings.TrimSpace(arg)
	sessionID := arg
	if n, err := strconv.Atoi(arg); err == nil {
		list := chatStore.SessionList()
		if n < 1 || n > len(list) {
			fmt.Printf("No session %d\n", n)
			return
		}
		sessionID = list[n-1].ID
	}
	if err := chatStore.SwitchSession(ctx, sessionID); err != nil {
		slog.Error("Failed to switch session", "session_id", sessionID, "error", err)
	}
	printMessages(chatStore.Messages(chatStore.CurrentSession()))
}

func printSessions(chatStore *store.Store) {
	current := chatStore.CurrentSession()
	for i, meta := range chatStore.SessionList() {
		marker := " "
		if meta.ID == current {
			marker = "*"
		}
		fmt.Printf("%s %2d. %s (%s)\n", marker, i+1, meta.Title, meta.ID)
	}
}

func printMessages(messages []chat.Message) {
	for _, msg := range messages {
		if msg.Loading {
			continue
		}
		fmt.Printf("%s: %s\n", msg.Role, msg.Text)
	}
}

func printLastMessage(chatStore *store.Store) {
	messages := chatStore.Messages(chatStore.CurrentSession())
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	fmt.Printf("%s: %s\n", last.Role, last.Text)
}

func printHelp() {
	fmt.Println(`Commands:
  /new              start a new conversation
  /sessions         list conversations
  /switch <n|id>    switch to a conversation
  /function <name>  bind the function name for this conversation
  /approve          request the final document
  /health           probe the webhook
  /quit             exit`)
}
