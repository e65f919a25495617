package quizgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/store"
)

// Orchestrator produces batches of unique questions, driving per-slot
// generation attempts across the configured providers and falling back to
// the curated library when generation is exhausted.
type Orchestrator struct {
	providers []llm.Provider
	fallback  *FallbackLibrary
	usage     store.UsageRepo
	cfg       Config
	logger    *zap.Logger
}

// NewOrchestrator creates an Orchestrator. A nil usage repo disables
// usage tracking; a nil logger disables logging.
func NewOrchestrator(providers []llm.Provider, fallback *FallbackLibrary, usage store.UsageRepo, cfg Config, logger *zap.Logger) *Orchestrator {
	if usage == nil {
		usage = store.NopUsageRepo{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		providers: providers,
		fallback:  fallback,
		usage:     usage,
		cfg:       cfg,
		logger:    logger,
	}
}

// GenerateBatch produces exactly req.Count unique questions. Slot order is
// preserved regardless of which provider or fallback satisfied each slot
// and regardless of completion order.
//
// Partial provider failure never surfaces as an error: slots that all
// providers fail to fill come from the fallback library, with a soft
// warning on the batch. The only fatal condition is a missing fallback
// library, which is a configuration defect.
func (o *Orchestrator) GenerateBatch(ctx context.Context, req BatchRequest) (*Batch, error) {
	if err := o.validateRequest(req); err != nil {
		return nil, err
	}

	n := req.Count
	accepted := make([]*Question, n)

	// Guards the check-then-accept step: two slots must not both accept
	// mutually-duplicate candidates.
	var mu sync.Mutex

	for pass := 0; pass < o.cfg.MaxPasses; pass++ {
		unfilled := emptySlots(accepted)
		if len(unfilled) == 0 {
			break
		}

		var wg sync.WaitGroup
		for i, slot := range unfilled {
			if i > 0 && o.cfg.SlotStagger > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(o.cfg.SlotStagger):
				}
			}

			wg.Add(1)
			go func(slot int) {
				defer wg.Done()
				o.fillSlot(ctx, req, slot, slot+pass*o.cfg.AttemptOffset, accepted, &mu)
			}(slot)
		}
		wg.Wait()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	// Remaining slots come from the fallback library, slot-indexed so a
	// run of fallbacks walks distinct entries.
	fallbackCount := 0
	for slot := range n {
		if accepted[slot] != nil {
			continue
		}
		if o.fallback == nil {
			return nil, &ErrExhausted{Subject: req.Subject}
		}
		q := o.composeFallback(req, slot, accepted)
		accepted[slot] = &q
		fallbackCount++
	}

	batch := &Batch{
		Questions: make([]Question, n),
		Source:    SourceGenerated,
	}
	for slot, q := range accepted {
		batch.Questions[slot] = *q
	}

	if fallbackCount == n {
		batch.Source = SourceLocalBank
	}
	if fallbackCount > 0 {
		batch.Warning = fmt.Sprintf("%d of %d questions were served from the local fallback library", fallbackCount, n)
	}

	o.recordUsage(req, batch)

	return batch, nil
}

func (o *Orchestrator) validateRequest(req BatchRequest) error {
	if req.Subject == "" {
		return &ErrInvalidRequest{Reason: "subject is required"}
	}
	if req.Count < 1 {
		return &ErrInvalidRequest{Reason: "count must be at least 1"}
	}
	if max := o.cfg.MaxCount; max > 0 && req.Count > max {
		return &ErrInvalidRequest{Reason: fmt.Sprintf("count must be at most %d", max)}
	}
	if req.Difficulty < 0 || req.Difficulty > 5 {
		return &ErrInvalidRequest{Reason: "difficulty must be between 1 and 5"}
	}
	return nil
}

func emptySlots(accepted []*Question) []int {
	var out []int
	for i, q := range accepted {
		if q == nil {
			out = append(out, i)
		}
	}
	return out
}

// fillSlot runs one generation attempt for a slot: providers are tried in
// order and the first usable response wins. Transport errors and
// malformed-beyond-repair responses skip to the next provider. A
// duplicate or misaligned candidate abandons the attempt; the next pass
// retries the slot with a shifted attempt index.
func (o *Orchestrator) fillSlot(ctx context.Context, req BatchRequest, slot, attemptIndex int, accepted []*Question, mu *sync.Mutex) {
	prompt := BuildPrompt(PromptInput{
		Subject:      req.Subject,
		Objective:    req.Objective,
		Difficulty:   req.Difficulty,
		AttemptIndex: attemptIndex,
	})

	llmReq := llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:      QuestionSchema,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
	}

	genCtx := llm.WithPurpose(ctx, "question-gen")

	for _, p := range o.providers {
		callCtx, cancel := context.WithTimeout(genCtx, o.cfg.ProviderTimeout)
		resp, err := p.Generate(callCtx, llmReq)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			o.logger.Debug("provider failed for slot",
				zap.Int("slot", slot),
				zap.String("provider", p.ModelID()),
				zap.Error(err))
			continue
		}

		q, err := ParseQuestion(resp.Content)
		if err != nil {
			o.logger.Debug("unparseable response for slot",
				zap.Int("slot", slot),
				zap.String("provider", p.ModelID()),
				zap.Error(err))
			continue
		}

		q.Subject = req.Subject
		q.Objective = req.Objective
		q.Difficulty = req.Difficulty
		if q.Difficulty == 0 {
			q.Difficulty = 3
		}
		q.Source = SourceGenerated

		mu.Lock()
		if o.isDuplicate(q, accepted) {
			mu.Unlock()
			o.logger.Debug("duplicate candidate for slot", zap.Int("slot", slot))
			return
		}
		if !o.isAligned(q, req.Objective) {
			mu.Unlock()
			o.logger.Debug("misaligned candidate for slot",
				zap.Int("slot", slot),
				zap.String("objective", req.Objective))
			return
		}
		q.ID = uuid.NewString()
		q.CreatedAt = time.Now().UTC()
		accepted[slot] = q
		mu.Unlock()
		return
	}
}

// isDuplicate reports whether q collides with any already-accepted
// question: equal fingerprints, or body similarity above the threshold.
// Caller must hold the acceptance mutex.
func (o *Orchestrator) isDuplicate(q *Question, accepted []*Question) bool {
	fp := Fingerprint(q.Text, q.CorrectOption)
	for _, a := range accepted {
		if a == nil {
			continue
		}
		if fp == Fingerprint(a.Text, a.CorrectOption) {
			return true
		}
		if Similarity(q.Text, a.Text) > o.cfg.DuplicateThreshold {
			return true
		}
	}
	return false
}

// isAligned reports whether q is topically aligned with the objective.
// Trivially true when no objective was requested or the objective has no
// usable tokens.
func (o *Orchestrator) isAligned(q *Question, objective string) bool {
	if objective == "" || len(tokenSet(objective)) == 0 {
		return true
	}
	return Similarity(q.Text, objective) >= o.cfg.AlignmentThreshold
}

// composeFallback picks a fallback entry for the slot whose fingerprint
// collides with nothing already in the batch. The library walks its full
// contents across subjects and, once genuinely exhausted, varies a repeat
// until its fingerprint is fresh, so even an oversized request for an
// uncovered subject yields pairwise-distinct questions.
func (o *Orchestrator) composeFallback(req BatchRequest, slot int, accepted []*Question) Question {
	q := o.fallback.ComposeUnique(req.Subject, req.Objective, slot, func(cand Question) bool {
		return fingerprintTaken(&cand, accepted)
	})

	q.ID = uuid.NewString()
	q.CreatedAt = time.Now().UTC()
	return q
}

// fingerprintTaken reports whether q's fingerprint is already present in
// the accepted set. Unlike isDuplicate it ignores body similarity, which
// a textual variant of a repeated entry can never escape.
func fingerprintTaken(q *Question, accepted []*Question) bool {
	fp := Fingerprint(q.Text, q.CorrectOption)
	for _, a := range accepted {
		if a != nil && fp == Fingerprint(a.Text, a.CorrectOption) {
			return true
		}
	}
	return false
}

// recordUsage hands the served question ids to the usage sink without
// blocking batch return.
func (o *Orchestrator) recordUsage(req BatchRequest, batch *Batch) {
	if req.SessionID == "" {
		return
	}

	served := make([]store.ServedQuestion, len(batch.Questions))
	now := time.Now().UTC()
	for i, q := range batch.Questions {
		served[i] = store.ServedQuestion{
			SessionID:  req.SessionID,
			QuestionID: q.ID,
			Subject:    q.Subject,
			Source:     string(q.Source),
			ServedAt:   now,
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.usage.RecordServed(ctx, served); err != nil {
			o.logger.Warn("failed to record served questions", zap.Error(err))
		}
	}()
}
