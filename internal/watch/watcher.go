// Package watch drives the poll loop: extract both feeds, diff against the
// held state, and on change persist then publish. One cycle at a time; a
// tick that lands while the previous cycle still runs is skipped.
package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"stockwatch/internal/discord"
	"stockwatch/internal/health"
	"stockwatch/internal/notify"
	"stockwatch/internal/stock"
	"stockwatch/internal/storage"
	logx "stockwatch/pkg/logx"
)

// Feeds holds the channel id per category.
type Feeds struct {
	Seeds string
	Gear  string
}

type Watcher struct {
	extractor *stock.Extractor
	composer  *notify.Composer
	publisher *notify.Publisher
	store     storage.Store
	feeds     Feeds
	log       logx.Logger

	// st is owned by the cycle goroutine; the skip guard keeps cycles from
	// overlapping, so no lock is needed around it.
	st      *stock.State
	running atomic.Bool

	mu       sync.Mutex
	interval time.Duration
	c        *cron.Cron
	entry    cron.EntryID
	baseCtx  context.Context
}

func New(extractor *stock.Extractor, composer *notify.Composer, publisher *notify.Publisher,
	store storage.Store, feeds Feeds, interval time.Duration, log logx.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Watcher{
		extractor: extractor,
		composer:  composer,
		publisher: publisher,
		store:     store,
		feeds:     feeds,
		interval:  interval,
		log:       log,
		st:        stock.NewState(),
	}
}

// Start loads persisted state, runs one immediate cycle, then begins the
// timer. Absent or corrupt state is not fatal; the bot starts fresh.
func (w *Watcher) Start(ctx context.Context) error {
	st, err := w.store.Load(ctx)
	if err != nil {
		w.log.Warn("state load failed; starting fresh", logx.Err(err))
	}
	if st != nil {
		w.st = st
		w.log.Info("state loaded",
			logx.Int("seeds", len(st.Seeds)),
			logx.Int("gear", len(st.Gear)),
			logx.Bool("live_message", st.MessageID != ""),
		)
	} else {
		w.log.Info("no prior state")
	}

	w.RunCycle(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.baseCtx = ctx
	w.c = cron.New()
	entry, err := w.c.AddFunc(fmt.Sprintf("@every %s", w.interval), func() { w.RunCycle(ctx) })
	if err != nil {
		return fmt.Errorf("schedule poll: %w", err)
	}
	w.entry = entry
	w.c.Start()
	w.log.Info("watching channels", logx.Duration("interval", w.interval))
	return nil
}

func (w *Watcher) Stop(ctx context.Context) {
	w.mu.Lock()
	c := w.c
	w.c = nil
	w.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// SetInterval reschedules the timer at runtime (config hot reload).
func (w *Watcher) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if d == w.interval {
		return
	}
	w.interval = d
	if w.c == nil {
		return
	}
	w.c.Remove(w.entry)
	ctx := w.baseCtx
	entry, err := w.c.AddFunc(fmt.Sprintf("@every %s", d), func() { w.RunCycle(ctx) })
	if err != nil {
		w.log.Error("reschedule failed", logx.Err(err), logx.Duration("interval", d))
		return
	}
	w.entry = entry
	w.log.Info("poll interval updated", logx.Duration("interval", d))
}

// RunCycle performs one extract-diff-publish pass. It is the guarded entry
// point for both the immediate startup check and timer ticks.
func (w *Watcher) RunCycle(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		health.CyclesSkipped.Inc()
		w.log.Warn("previous cycle still running; tick skipped")
		return
	}
	defer w.running.Store(false)

	w.mu.Lock()
	budget := w.interval
	w.mu.Unlock()
	// Bound a cycle to two intervals so a hung call can't stall forever.
	cctx, cancel := context.WithTimeout(ctx, 2*budget)
	defer cancel()

	start := time.Now()
	health.PollCycles.Inc()

	// The two categories are independent; fetch them concurrently.
	var seeds, gear stock.Extraction
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		seeds = w.extractor.Extract(cctx, w.feeds.Seeds, stock.CategorySeeds)
	}()
	go func() {
		defer wg.Done()
		gear = w.extractor.Extract(cctx, w.feeds.Gear, stock.CategoryGear)
	}()
	wg.Wait()

	if !seeds.OK {
		health.ExtractionNoData.WithLabelValues(string(stock.CategorySeeds)).Inc()
	}
	if !gear.OK {
		health.ExtractionNoData.WithLabelValues(string(stock.CategoryGear)).Inc()
	}

	outSeeds := w.st.ApplyExtraction(stock.CategorySeeds, seeds)
	outGear := w.st.ApplyExtraction(stock.CategoryGear, gear)
	for cat, out := range map[stock.Category]stock.Outcome{
		stock.CategorySeeds: outSeeds,
		stock.CategoryGear:  outGear,
	} {
		if out.DidChange() {
			health.ChangesDetected.WithLabelValues(string(cat)).Inc()
			w.log.Info("snapshot "+out.String(),
				logx.String("category", string(cat)),
				logx.Int("items", len(w.st.Items(cat))),
			)
		}
	}

	defer func() { health.CycleDuration.Observe(time.Since(start).Seconds()) }()

	if !outSeeds.DidChange() && !outGear.DidChange() {
		w.log.Debug("no changes")
		return
	}

	// Persist before publishing so a crash mid-publish keeps the detected
	// change on disk.
	if err := w.store.Save(cctx, w.st); err != nil {
		health.StateSaveFailures.Inc()
		w.log.Error("state save failed", logx.Err(err))
	}

	if w.st.Empty() {
		// Both feeds went dark; nothing to render. The live message (if
		// any) keeps showing the last non-empty stock.
		w.log.Info("all feeds empty; skipping publish")
		return
	}

	payload := w.composer.Compose(cctx, w.st)
	hadLive := w.st.MessageID != ""
	if err := w.publisher.Publish(cctx, w.st, payload); err != nil {
		kind := "other"
		if discord.IsNotFound(err) {
			kind = "not_found"
		}
		health.PublishFailures.WithLabelValues(kind).Inc()
		return
	}
	if hadLive {
		health.PublishesEdited.Inc()
	} else {
		health.PublishesCreated.Inc()
	}
}

// State exposes the held state for tests and the app's shutdown logging.
func (w *Watcher) State() *stock.State { return w.st }
