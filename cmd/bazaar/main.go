// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/bazaar"
	"github.com/poiesic/bazaar/ai"
	"github.com/poiesic/bazaar/chat"
	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/search"
	"github.com/poiesic/bazaar/storage"
	"github.com/poiesic/bazaar/storage/badger"
	"github.com/poiesic/bazaar/storage/redis"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	// Load .env before flags read their EnvVars
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bazaar",
		Usage: "Conversational shopping assistant for a student marketplace",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load listings from a YAML file into the catalog",
				Action: seedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML file with a top-level listings array",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run the tiered listing search without the model",
				Action:    searchCommand,
				ArgsUsage: "QUERY",
				Flags:     append([]cli.Flag{dbFlag()}, affiliationFlags()...),
			},
			{
				Name:   "recommend",
				Usage:  "List recommendations for an affiliation",
				Action: recommendCommand,
				Flags:  append([]cli.Flag{dbFlag()}, affiliationFlags()...),
			},
			{
				Name:   "chat",
				Usage:  "Talk to the assistant; reads lines from stdin unless --message is given",
				Action: chatCommand,
				Flags: concatFlags(
					[]cli.Flag{dbFlag(), redisFlag()},
					aiFlags(),
					affiliationFlags(),
					[]cli.Flag{
						&cli.StringFlag{
							Name:    "message",
							Aliases: []string{"m"},
							Usage:   "Send a single message and exit",
						},
						&cli.Uint64Flag{
							Name:  "user-id",
							Usage: "Requester user id (0 is anonymous)",
						},
						&cli.StringFlag{
							Name:  "name",
							Usage: "Requester display name",
						},
						&cli.StringFlag{
							Name:  "audio",
							Usage: "Voice message file to send with the message",
						},
						&cli.StringFlag{
							Name:  "image",
							Usage: "Image file to send with the message",
						},
						&cli.StringFlag{
							Name:  "speech-out",
							Usage: "Write the spoken reply to this file (enables speech synthesis)",
						},
					},
				),
			},
			{
				Name:   "batch",
				Usage:  "Answer a YAML file of independent requests concurrently",
				Action: batchCommand,
				Flags: concatFlags(
					[]cli.Flag{dbFlag(), redisFlag()},
					aiFlags(),
					[]cli.Flag{
						&cli.StringFlag{
							Name:     "file",
							Aliases:  []string{"f"},
							Usage:    "YAML file with a top-level requests array",
							Required: true,
						},
						&cli.IntFlag{
							Name:  "workers",
							Usage: "Number of turns answered at once",
							Value: 4,
						},
					},
				),
			},
			{
				Name:   "tickets",
				Usage:  "Show escalation tickets, newest first",
				Action: ticketsCommand,
				Flags: []cli.Flag{
					dbFlag(),
					redisFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tickets to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "queue-key",
						Usage: "Redis list holding queued tickets",
						Value: redis.DefaultQueueKey,
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory",
		EnvVars: []string{"BAZAAR_DB"},
		Value:   "./bazaar_db",
	}
}

func redisFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "redis",
		Usage:   "Redis address for the escalation queue (disabled when empty)",
		EnvVars: []string{"BAZAAR_REDIS_ADDR"},
	}
}

func affiliationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "institution",
			Usage: "Requester's university",
		},
		&cli.StringFlag{
			Name:  "department",
			Usage: "Requester's faculty",
		},
	}
}

func aiFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Usage:   "OpenAI-compatible service host URL",
			EnvVars: []string{"BAZAAR_HOST"},
			Value:   defaults.Host,
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model service",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "model",
			Usage:   "Chat model name",
			EnvVars: []string{"BAZAAR_MODEL"},
			Value:   defaults.ChatModel,
		},
		&cli.DurationFlag{
			Name:  "call-timeout",
			Usage: "Timeout for each model, speech and vision call",
			Value: chat.DefaultCallTimeout,
		},
	}
}

func concatFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func affiliationFromFlags(c *cli.Context) *core.Affiliation {
	aff := core.NewAffiliation(c.String("institution"), c.String("department"))
	if aff.IsEmpty() {
		return nil
	}
	return &aff
}

// seedFile is the YAML catalog seed format.
type seedFile struct {
	Listings []seedListing `yaml:"listings"`
}

type seedListing struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Condition   string  `yaml:"condition"`
	Category    string  `yaml:"category"`
	Institution string  `yaml:"institution"`
	Department  string  `yaml:"department"`
	Region      string  `yaml:"region"`
	Status      string  `yaml:"status"`
	Seller      struct {
		Id        uint64 `yaml:"id"`
		Username  string `yaml:"username"`
		FirstName string `yaml:"first_name"`
	} `yaml:"seller"`
}

func (s seedListing) toListing() *core.Listing {
	condition := core.Condition(strings.ToLower(s.Condition))
	if condition == "" {
		condition = core.ConditionUsed
	}
	status := core.ListingStatus(strings.ToLower(s.Status))
	if status == "" {
		status = core.ListingStatusActive
	}
	return &core.Listing{
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		Condition:   condition,
		Category:    s.Category,
		Institution: s.Institution,
		Department:  s.Department,
		Region:      s.Region,
		Status:      status,
		Seller: core.Seller{
			Id:        core.ID(s.Seller.Id),
			Username:  s.Seller.Username,
			FirstName: s.Seller.FirstName,
		},
	}
}

func loadSeedFile(path string) ([]*core.Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	listings := make([]*core.Listing, 0, len(seed.Listings))
	for _, s := range seed.Listings {
		listings = append(listings, s.toListing())
	}
	return listings, nil
}

// catalog holds open repositories for commands that do not need the model.
type catalog struct {
	backend  *badger.Backend
	listings storage.ListingRepository
	tickets  storage.TicketRepository
}

func openCatalog(c *cli.Context) (*catalog, error) {
	listings, tickets, backend, err := badger.OpenRepositories(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &catalog{backend: backend, listings: listings, tickets: tickets}, nil
}

func (cat *catalog) Close() {
	cat.tickets.Close()
	cat.listings.Close()
	cat.backend.Close()
}

func seedCommand(c *cli.Context) error {
	listings, err := loadSeedFile(c.String("file"))
	if err != nil {
		return err
	}

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	added, err := cat.listings.AddListings(c.Context, listings...)
	if err != nil {
		return fmt.Errorf("failed to add listings: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Added %d listings\n", len(added))
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query is required")
	}

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	engine, err := search.NewEngine(cat.listings)
	if err != nil {
		return err
	}

	result, err := engine.Search(c.Context, query, affiliationFromFlags(c))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Tier: %s\n", result.Tier)
	if result.Region != "" {
		fmt.Fprintf(c.App.Writer, "Region: %s\n", result.Region)
	}
	printListings(c.App.Writer, result.Listings)
	return nil
}

func recommendCommand(c *cli.Context) error {
	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	recommender, err := search.NewRecommender(cat.listings)
	if err != nil {
		return err
	}

	listings, err := recommender.Recommend(c.Context, affiliationFromFlags(c))
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}
	printListings(c.App.Writer, listings)
	return nil
}

func printListings(w io.Writer, listings []*core.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings found")
		return
	}
	for i, l := range listings {
		fmt.Fprintf(w, "%d: %s [%.2f] (%d)", i+1, l.Title, l.Price, l.Id)
		if l.Region != "" {
			fmt.Fprintf(w, " %s", l.Region)
		}
		fmt.Fprintln(w)
	}
}

func openAssistant(c *cli.Context, speech bool) (*bazaar.Assistant, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithChatModel(c.String("model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []bazaar.AssistantOption{
		bazaar.WithAIConfig(aiConfig),
		bazaar.WithChatOptions(
			chat.WithCallTimeout(c.Duration("call-timeout")),
			chat.WithSpeechSynthesis(speech),
		),
	}
	if addr := c.String("redis"); addr != "" {
		opts = append(opts, bazaar.WithRedisQueue(addr, ""))
	}

	assistant, err := bazaar.NewAssistant(c.Context, c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start assistant: %w", err)
	}
	return assistant, nil
}

func chatCommand(c *cli.Context) error {
	speechOut := c.String("speech-out")
	assistant, err := openAssistant(c, speechOut != "")
	if err != nil {
		return err
	}
	defer assistant.Close()

	var requester *core.Requester
	if aff := affiliationFromFlags(c); aff != nil || c.Uint64("user-id") != 0 {
		requester = &core.Requester{
			UserId:      core.ID(c.Uint64("user-id")),
			DisplayName: c.String("name"),
		}
		if aff != nil {
			requester.Affiliation = *aff
		}
	}

	if msg := c.String("message"); msg != "" || c.String("audio") != "" || c.String("image") != "" {
		req := &chat.Request{Text: msg, Requester: requester}
		if err := attachFiles(req, c.String("audio"), c.String("image")); err != nil {
			return err
		}
		return converse(c.Context, c.App.Writer, assistant, req, speechOut)
	}

	if err := converse(c.Context, c.App.Writer, assistant, &chat.Request{Initial: true}, ""); err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(c.App.Writer, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}
		if err := converse(c.Context, c.App.Writer, assistant, &chat.Request{Text: line, Requester: requester}, speechOut); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func attachFiles(req *chat.Request, audioPath, imagePath string) error {
	if audioPath != "" {
		audio, err := os.ReadFile(audioPath)
		if err != nil {
			return fmt.Errorf("failed to read audio: %w", err)
		}
		req.Audio = audio
		req.AudioFilename = filepath.Base(audioPath)
	}
	if imagePath != "" {
		image, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		req.Image = image
		req.ImageMIME = http.DetectContentType(image)
	}
	return nil
}

func converse(ctx context.Context, w io.Writer, assistant *bazaar.Assistant, req *chat.Request, speechOut string) error {
	reply, err := assistant.Respond(ctx, req)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyQuery) {
			fmt.Fprintln(w, "Please type a message.")
			return nil
		}
		return err
	}

	fmt.Fprintln(w, reply.Text)
	if len(reply.Listings) > 0 {
		printListings(w, reply.Listings)
	}
	if reply.Fallback {
		slog.Debug("reply came from fallback search", "query", reply.Query)
	}
	if speechOut != "" && len(reply.Audio) > 0 {
		if err := os.WriteFile(speechOut, reply.Audio, 0644); err != nil {
			return fmt.Errorf("failed to write speech: %w", err)
		}
	}
	return nil
}

// batchFile is the YAML request format for the batch command.
type batchFile struct {
	Requests []batchRequest `yaml:"requests"`
}

type batchRequest struct {
	Text        string `yaml:"text"`
	UserId      uint64 `yaml:"user_id"`
	Name        string `yaml:"name"`
	Institution string `yaml:"institution"`
	Department  string `yaml:"department"`
}

func (b batchRequest) toRequest() *chat.Request {
	req := &chat.Request{Text: b.Text}
	aff := core.NewAffiliation(b.Institution, b.Department)
	if b.UserId != 0 || !aff.IsEmpty() {
		req.Requester = &core.Requester{UserId: core.ID(b.UserId), DisplayName: b.Name, Affiliation: aff}
	}
	return req
}

type batchResult struct {
	Text     string   `yaml:"text"`
	Reply    string   `yaml:"reply,omitempty"`
	Listings []string `yaml:"listings,omitempty"`
	Fallback bool     `yaml:"fallback,omitempty"`
	Error    string   `yaml:"error,omitempty"`
}

func loadBatchFile(path string) ([]*chat.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	reqs := make([]*chat.Request, 0, len(batch.Requests))
	for _, b := range batch.Requests {
		reqs = append(reqs, b.toRequest())
	}
	return reqs, nil
}

func batchCommand(c *cli.Context) error {
	reqs, err := loadBatchFile(c.String("file"))
	if err != nil {
		return err
	}

	assistant, err := openAssistant(c, false)
	if err != nil {
		return err
	}
	defer assistant.Close()

	runner, err := assistant.NewRunner(c.Int("workers"))
	if err != nil {
		return err
	}
	defer runner.Release()

	start := time.Now()
	results, err := runner.RunAll(c.Context, reqs)
	if err != nil {
		return err
	}
	slog.Info("batch finished", "requests", len(reqs), "elapsed", time.Since(start))

	return writeBatchResults(c.App.Writer, reqs, results)
}

func writeBatchResults(w io.Writer, reqs []*chat.Request, results []chat.Result) error {
	out := make([]batchResult, len(results))
	for i, r := range results {
		out[i].Text = reqs[i].Text
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].Reply = r.Reply.Text
		out[i].Fallback = r.Reply.Fallback
		for _, l := range r.Reply.Listings {
			out[i].Listings = append(out[i].Listings, l.Title)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"results": out}); err != nil {
		return err
	}
	return enc.Close()
}

func ticketsCommand(c *cli.Context) error {
	limit := c.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	cat, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer cat.Close()

	tickets, err := cat.tickets.ListTickets(c.Context, limit)
	if err != nil {
		return fmt.Errorf("failed to list tickets: %w", err)
	}

	if len(tickets) == 0 {
		fmt.Fprintln(c.App.Writer, "No tickets")
	}
	for _, t := range tickets {
		printTicket(c.App.Writer, t)
	}

	if addr := c.String("redis"); addr != "" {
		return printQueue(c, addr, limit)
	}
	return nil
}

func printQueue(c *cli.Context, addr string, limit int) error {
	queue, err := redis.Dial(c.Context, addr, c.String("queue-key"))
	if err != nil {
		return err
	}
	defer queue.Close()

	pending, err := queue.Pending(c.Context, limit)
	if err != nil {
		return fmt.Errorf("failed to read ticket queue: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Queued for support desk: %d\n", len(pending))
	for _, t := range pending {
		printTicket(c.App.Writer, t)
	}
	return nil
}

func printTicket(w io.Writer, t *core.EscalationTicket) {
	requester := "anonymous"
	if !t.IsAnonymous() {
		requester = fmt.Sprintf("%s (%d)", t.RequesterName, t.RequesterId)
	}
	fmt.Fprintf(w, "%s %s [%s/%s] %s: %s\n",
		t.CreatedAt.Format(time.RFC3339), t.Reference, t.Category, t.Priority, requester, t.Summary)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
