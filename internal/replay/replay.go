// Package replay runs saved conversation files through the lens engine in
// bulk, each file with its own analyzer graph.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexziconAI/eco-dairy-bot/internal/lens"
	"github.com/lexziconAI/eco-dairy-bot/internal/progress"
)

// ErrNoFiles is returned by Expand when no pattern matches a file.
var ErrNoFiles = errors.New("no conversation files matched")

const defaultConcurrency = 4

// Options controls a replay run.
type Options struct {
	Offline     bool // skip the model and use the templated reply
	Persist     bool // store each conversation and its analysis
	Concurrency int
	Reporter    progress.Reporter
	Logger      *zap.Logger
}

// Outcome is the result of replaying one file.
type Outcome struct {
	Path           string          `json:"path"`
	ConversationID string          `json:"conversationId,omitempty"`
	Reply          string          `json:"reply,omitempty"`
	Lenses         json.RawMessage `json:"lenses,omitempty"`
	Lens           *lens.Lens      `json:"lens,omitempty"`
	Error          string          `json:"error,omitempty"`
	Err            error           `json:"-"`
}

// Expand resolves doublestar patterns to a sorted list of distinct files.
func Expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	sort.Strings(files)
	return files, nil
}

// LoadConversation reads a JSON file holding either a conversation object or
// a bare array of turns.
func LoadConversation(path string) (*lens.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	trimmed := strings.TrimSpace(string(data))

	var conv lens.Conversation
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &conv.Turns); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := json.Unmarshal([]byte(trimmed), &conv); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if conv.Title == "" {
		conv.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &conv, nil
}

// Run replays every file. Per-file failures are recorded on the outcome;
// the returned error is non-nil only when ctx ends the run early.
func Run(ctx context.Context, engine *lens.Engine, files []string, opts Options) ([]Outcome, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	outcomes := make([]Outcome, len(files))
	var (
		mu   sync.Mutex
		done int
	)
	opts.Reporter.Start(len(files))
	defer opts.Reporter.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := replayFile(gctx, engine, path, opts)
			if out.Err != nil {
				out.Error = out.Err.Error()
				opts.Logger.Warn("replay failed", zap.String("path", path), zap.Error(out.Err))
			}
			outcomes[i] = out

			mu.Lock()
			done++
			opts.Reporter.Update(done, filepath.Base(path))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func replayFile(ctx context.Context, engine *lens.Engine, path string, opts Options) Outcome {
	out := Outcome{Path: path}
	conv, err := LoadConversation(path)
	if err != nil {
		out.Err = err
		return out
	}

	var (
		kind   string
		result any
	)
	if opts.Offline {
		l, err := engine.Lens(*conv)
		if err != nil {
			out.Err = err
			return out
		}
		out.Lens, out.Reply = l, l.Reply.Full
		kind, result = lens.KindLens, l
	} else {
		res, err := engine.Analyze(ctx, *conv)
		if err != nil {
			out.Err = err
			return out
		}
		out.Lens, out.Reply, out.Lenses = &res.Lens, res.Response, res.Lenses
		kind, result = lens.KindLLM, res
	}

	if opts.Persist && engine.Store() != nil {
		id, err := persist(ctx, engine.Store(), conv, kind, out.Lens, result)
		if err != nil {
			out.Err = err
			return out
		}
		out.ConversationID = id
	}
	return out
}

func persist(ctx context.Context, store *lens.Store, conv *lens.Conversation, kind string, l *lens.Lens, result any) (string, error) {
	saved, err := store.CreateConversation(ctx, conv.Title)
	if err != nil {
		return "", err
	}
	// Untimed turns inherit the previous time so the stored order check holds.
	var prev time.Time
	for _, t := range conv.Turns {
		if !t.Timestamp.IsZero() {
			prev = t.Timestamp
			break
		}
	}
	for _, t := range conv.Turns {
		t.ID = ""
		if t.Timestamp.IsZero() {
			t.Timestamp = prev
		}
		prev = t.Timestamp
		if _, err := store.AddTurn(ctx, saved.ID, t); err != nil {
			return "", err
		}
	}
	if _, err := store.SaveAnalysis(ctx, saved.ID, kind, len(conv.Turns), l, result); err != nil {
		return "", err
	}
	return saved.ID, nil
}
