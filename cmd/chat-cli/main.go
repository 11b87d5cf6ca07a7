package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/daniel-gharavi/CollegeMarketplace/internal/chat"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/gateway"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/logger"
	"github.com/daniel-gharavi/CollegeMarketplace/internal/models"
)

// terminalNotifier prints background-arrival notifications to stderr,
// standing in for the OS notification center.
type terminalNotifier struct{}

func (terminalNotifier) Schedule(_ context.Context, title, body, _ string) error {
	fmt.Fprintf(os.Stderr, "\a[notification] %s: %s\n", title, body)
	return nil
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "chat server base URL")
	token := flag.String("token", os.Getenv("CHAT_TOKEN"), "bearer token")
	userID := flag.String("user", "", "local user id (token subject)")
	convID := flag.String("conversation", "", "open an existing conversation by id")
	participant := flag.String("participant", "", "open or start a conversation with this user")
	itemID := flag.String("item", "", "item the conversation is about")
	flag.Parse()

	if *token == "" || *userID == "" {
		log.Fatal("-token and -user are required")
	}
	if *convID == "" && *participant == "" {
		log.Fatal("one of -conversation or -participant is required")
	}

	zlog, err := logger.New(logger.Config{Development: true})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	gw := gateway.NewHTTPClient(*serverURL, *token, zlog)
	// no gate here: the server decides recipient pushes on every send
	session := chat.NewSession(gw, nil, terminalNotifier{}, *userID, zlog)

	session.OnSequenceChanged(func(msgs []models.Message) {
		render(*userID, msgs)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv, err := session.Open(ctx, chat.OpenParams{
		ConversationID: *convID,
		ParticipantID:  *participant,
		ItemID:         *itemID,
	})
	if err != nil {
		log.Fatalf("open conversation: %v", err)
	}
	defer session.Close(context.Background())

	name := conv.Counterparty(*userID)
	if p := session.Counterparty(); p != nil {
		name = p.DisplayName()
	}
	fmt.Printf("-- chatting with %s (conversation %s); /quit to exit --\n", name, conv.ID)

	if _, err := session.LoadHistory(ctx); err != nil {
		zlog.Warnw("load history", "err", err)
	}

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/quit" {
				return
			}
			res, err := session.Send(ctx, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "send failed, text restored: %q\n", res.RestoredText)
			}
		}
	}
}

func render(self string, msgs []models.Message) {
	fmt.Print("\033[H\033[2J")
	for _, m := range msgs {
		who := "them"
		if m.SenderID == self {
			who = "you"
			if m.ID.Local() {
				who = "you (sending)"
			}
		}
		fmt.Printf("%s  %-14s %s\n", m.CreatedAt.Local().Format("15:04"), who+":", m.Content)
	}
	fmt.Print("> ")
}
