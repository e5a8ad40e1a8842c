package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	memfs "github.com/hack-pad/hackpadfs/mem"
	osfs "github.com/hack-pad/hackpadfs/os"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kagamiapp/kagami/internal/almanac"
	"github.com/kagamiapp/kagami/internal/companion"
	"github.com/kagamiapp/kagami/internal/config"
	"github.com/kagamiapp/kagami/internal/insight"
	"github.com/kagamiapp/kagami/internal/logging"
	"github.com/kagamiapp/kagami/internal/omikuji"
	"github.com/kagamiapp/kagami/internal/review"
	"github.com/kagamiapp/kagami/internal/store"
	"github.com/kagamiapp/kagami/internal/suggest"
	"github.com/kagamiapp/kagami/pkg/related"
)

// app carries the shared state every subcommand needs.
type app struct {
	cfgPath string
	debug   bool

	cfg   config.Config
	log   *zap.Logger
	store *store.Store
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(a.debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.log = log

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}
	a.store = store.New(store.Options{
		Backend:      backend,
		Logger:       log,
		SkipDemoSeed: !cfg.DemoSeed,
	})
	if err := a.store.Open(); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if a.store.Language() == "" && cfg.Language != "" {
		if err := a.store.SetLanguage(cfg.Language); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
	}
	return nil
}

func (a *app) teardown() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close failed", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newBackend(cfg config.Config) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemBackend(), nil
	case "fs":
		fsys := osfs.NewFS()
		dir, err := fsys.FromOSPath(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("invalid storage path %q: %w", cfg.Storage.Path, err)
		}
		return store.NewFSBackend(fsys, dir)
	case "sqlite", "":
		return store.NewSQLiteBackend(cfg.Storage.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *app) llmClient() companion.LLMClient {
	if a.cfg.LLM.APIKey == "" {
		return nil
	}
	c := companion.DefaultAnthropicConfig(a.cfg.LLM.APIKey)
	if a.cfg.LLM.Model != "" {
		c.Model = a.cfg.LLM.Model
	}
	if a.cfg.LLM.BaseURL != "" {
		c.BaseURL = a.cfg.LLM.BaseURL
	}
	return companion.NewAnthropicClientWithConfig(c)
}

func (a *app) ttsClient() (companion.TTSClient, error) {
	switch a.cfg.TTS.Provider {
	case "voicevox":
		return companion.NewVoicevoxClient(a.cfg.TTS.VoicevoxURL, a.cfg.TTS.Speaker), nil
	case "elevenlabs":
		return companion.NewElevenLabsClient(a.cfg.TTS.ElevenLabsKey, a.cfg.TTS.VoiceID), nil
	case "":
		return nil, fmt.Errorf("no tts provider configured")
	default:
		return nil, fmt.Errorf("unknown tts provider %q", a.cfg.TTS.Provider)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "kagami",
		Short:         "kagami is a journaling companion with daily fortunes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "kagami.yaml", "path to the config file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newJournalCmd(a),
		newFortuneCmd(a),
		newSuggestCmd(a),
		newInsightCmd(a),
		newReviewCmd(a),
		newTimelineCmd(a),
		newChatCmd(a),
		newProfileCmd(a),
	)
	return root
}

// ============================================================================
// journal
// ============================================================================

func newJournalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Manage journal entries",
	}

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.store.AddEntry(strings.Join(args, " "), store.EntryUser)
			if err != nil {
				return err
			}
			cmd.Printf("added %s\n", entry.ID)
			return nil
		},
	}

	var sinceDays int
	list := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.store.Entries()
			if sinceDays > 0 {
				entries = a.store.EntriesSince(time.Now().AddDate(0, 0, -sinceDays))
			}
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				when := time.UnixMilli(e.CreatedAt).Format("2006-01-02 15:04")
				cmd.Printf("%s  [%s] %s  %s\n", e.ID, e.Kind, when, e.Text)
			}
			return nil
		},
	}
	list.Flags().IntVar(&sinceDays, "since", 0, "only entries from the last N days")

	edit := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace the text of an entry",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.UpdateEntry(args[0], strings.Join(args[1:], " "))
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry and its reflections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.DeleteEntry(args[0])
		},
	}

	var relatedN int
	rel := &cobra.Command{
		Use:   "related <id>",
		Short: "Find entries similar to the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := a.store.Entry(args[0])
			if !ok {
				return fmt.Errorf("no entry %s", args[0])
			}
			fsys, err := memfs.NewFS()
			if err != nil {
				return err
			}
			idx, err := related.NewIndex(fsys, "related.idx")
			if err != nil {
				return err
			}
			byID := map[string]store.JournalEntry{}
			for _, e := range a.store.Entries() {
				if e.ID == target.ID {
					continue
				}
				byID[e.ID] = e
				if err := idx.Add(e.ID, e.Text); err != nil {
					return err
				}
			}
			ids, err := idx.Related(target.Text, relatedN)
			if err != nil {
				return err
			}
			for _, id := range ids {
				cmd.Printf("%s  %s\n", id, byID[id].Text)
			}
			return nil
		},
	}
	rel.Flags().IntVarP(&relatedN, "count", "n", 5, "number of similar entries")

	cmd.AddCommand(add, list, edit, del, rel)
	return cmd
}

// ============================================================================
// fortune
// ============================================================================

func newFortuneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fortune",
		Short: "Daily omikuji fortunes",
	}

	var again bool
	draw := &cobra.Command{
		Use:   "draw",
		Short: "Draw today's fortune",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !again {
				if prev, ok := a.store.LatestDrawOn(time.Now()); ok {
					cmd.Printf("already drawn today: %s (%s). Use --again to draw anyway.\n",
						prev.Name, prev.NameJA)
					return nil
				}
			}
			engine := omikuji.New(a.store, nil, nil)
			d, err := engine.Draw()
			if err != nil {
				return err
			}
			printDraw(cmd, d)
			return nil
		},
	}
	draw.Flags().BoolVar(&again, "again", false, "draw even if today already has a fortune")

	tie := &cobra.Command{
		Use:   "tie <draw-id>",
		Short: "Tie a bad fortune to leave it behind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.TieFortune(args[0])
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "List past draws, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			draws := a.store.Draws()
			for i := len(draws) - 1; i >= 0; i-- {
				d := draws[i]
				when := time.UnixMilli(d.DrawnAt).Format("2006-01-02")
				tied := ""
				if d.Tied {
					tied = " (tied)"
				}
				cmd.Printf("%s  %s  %s %s%s\n", d.ID, when, d.Name, d.NameJA, tied)
			}
			return nil
		},
	}

	cmd.AddCommand(draw, tie, history)
	return cmd
}

func printDraw(cmd *cobra.Command, d store.FortuneDraw) {
	cmd.Printf("%s (%s)\n", d.Name, d.NameJA)
	cmd.Printf("  %s\n", d.Proverb)
	cmd.Printf("  work: %s\n", d.WorkAdvice)
	cmd.Printf("  season: %s (%s)\n", d.Microseason.Name, d.Microseason.NameJA)
	cmd.Printf("  id: %s\n", d.ID)
}

// ============================================================================
// suggest / insight / review
// ============================================================================

func newSuggestCmd(a *app) *cobra.Command {
	var weather string
	var walked bool
	var n int
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest an activity for today",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := suggest.New(nil)
			bt := a.store.Profile().BloodType
			if n > 1 {
				for _, s := range gen.SuggestN(time.Now(), bt, weather, walked, n) {
					cmd.Printf("[%s] %s\n", s.Type, s.Text)
				}
				return nil
			}
			s := gen.Suggest(time.Now(), bt, weather, walked)
			cmd.Printf("[%s] %s\n", s.Type, s.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&weather, "weather", "", "current weather (sunny, rainy, cloudy, snowy)")
	cmd.Flags().BoolVar(&walked, "walked", false, "a walk was already taken today")
	cmd.Flags().IntVarP(&n, "count", "n", 1, "number of suggestions")
	return cmd
}

func newInsightCmd(a *app) *cobra.Command {
	var walkDays int
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Show a mirror insight over the last week",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			entries := a.store.EntriesSince(now.AddDate(0, 0, -7))
			ins := insight.Generate(entries, walkDays, now, nil)
			cmd.Printf("[%s] %s\n", ins.Category, ins.Text)
			return nil
		},
	}
	cmd.Flags().IntVar(&walkDays, "walk-days", 0, "days with a walk in the last week")
	return cmd
}

func newReviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Generate and save a weekly review",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			entries := a.store.EntriesSince(now.AddDate(0, 0, -7))
			gen := review.New(a.llmClient(), a.log)
			r := gen.Generate(cmd.Context(), entries, now)
			if err := a.store.AddReview(r); err != nil {
				return err
			}
			cmd.Printf("%s\n%s\n", r.Title, r.Summary)
			if len(r.KeyThemes) > 0 {
				cmd.Printf("themes: %s\n", strings.Join(r.KeyThemes, ", "))
			}
			cmd.Printf("entries: %d  words: %d  mood: %s\n",
				r.Stats.EntryCount, r.Stats.WordCount, r.Stats.Mood)
			return nil
		},
	}
}

// ============================================================================
// timeline / chat / profile
// ============================================================================

func newTimelineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Show journal entries, fortunes, reviews and observations together",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, item := range a.store.CombinedTimeline() {
				when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
				switch item.Type {
				case store.TimelineEntry:
					cmd.Printf("%s  entry        %s\n", when, item.Entry.Text)
				case store.TimelineFortune:
					cmd.Printf("%s  fortune      %s (%s)\n", when, item.Draw.Name, item.Draw.NameJA)
				case store.TimelineReview:
					cmd.Printf("%s  review       %s\n", when, item.Review.Title)
				case store.TimelineObservation:
					cmd.Printf("%s  observation  %s\n", when, item.Observation.Text)
				}
			}
			return nil
		},
	}
}

func newChatCmd(a *app) *cobra.Command {
	var speak bool
	var audioOut string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Talk to the companion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := companion.New(a.llmClient(), a.store, nil, a.log)
			reply, err := c.Reply(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			cmd.Println(reply)
			if !speak {
				return nil
			}
			tts, err := a.ttsClient()
			if err != nil {
				return err
			}
			audio, err := tts.Synthesize(cmd.Context(), reply)
			if err != nil {
				return fmt.Errorf("speech synthesis failed: %w", err)
			}
			if err := os.WriteFile(audioOut, audio, 0o644); err != nil {
				return fmt.Errorf("failed to write audio: %w", err)
			}
			cmd.Printf("audio written to %s\n", audioOut)
			return nil
		},
	}
	cmd.Flags().BoolVar(&speak, "speak", false, "synthesize the reply with the configured tts provider")
	cmd.Flags().StringVar(&audioOut, "audio-out", "reply.wav", "file to write synthesized audio to")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the user profile",
	}

	blood := &cobra.Command{
		Use:   "blood <A|B|O|AB>",
		Short: "Set the blood type used for advice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bt := strings.ToUpper(strings.TrimSpace(args[0]))
			switch almanac.BloodType(bt) {
			case almanac.BloodA, almanac.BloodB, almanac.BloodO, almanac.BloodAB:
			default:
				return fmt.Errorf("unknown blood type %q", args[0])
			}
			return a.store.SetBloodType(bt)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.store.Profile()
			bt := string(p.BloodType)
			if bt == "" {
				bt = "unset"
			}
			cmd.Printf("blood type: %s\n", bt)
			cmd.Printf("language:   %s\n", a.store.Language())
			return nil
		},
	}

	lang := &cobra.Command{
		Use:   "language <code>",
		Short: "Set the preferred language (en, ja)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.SetLanguage(args[0])
		},
	}

	cmd.AddCommand(blood, show, lang)
	return cmd
}
