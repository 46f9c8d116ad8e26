package notify

import (
	"context"

	"stockwatch/internal/discord"
	"stockwatch/internal/stock"
	logx "stockwatch/pkg/logx"
)

// Sink is the webhook surface the publisher needs. Implemented by
// discord.Webhook.
type Sink interface {
	Create(ctx context.Context, p discord.WebhookPayload) (string, error)
	Edit(ctx context.Context, messageID string, p discord.WebhookPayload) error
}

// Saver persists the state after the publisher mutates the live message id.
// Implemented by storage.Store.
type Saver interface {
	Save(ctx context.Context, st *stock.State) error
}

// Publisher performs the at-most-one-live-message cycle: edit when a live id
// is tracked, create otherwise, and drop the id when the sink says the
// target vanished.
type Publisher struct {
	sink  Sink
	store Saver
	log   logx.Logger
}

func NewPublisher(sink Sink, store Saver, log logx.Logger) *Publisher {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Publisher{sink: sink, store: store, log: log}
}

// Publish delivers the payload, updating st.MessageID in place.
//
// Failure policy, per kind:
//   - edit hits not-found: the tracked message is gone; clear the id and
//     persist so the next change creates fresh. The error still surfaces.
//   - edit fails otherwise: keep the id, retry the edit on the next change.
//   - create fails: id stays empty, next change retries creation.
//
// A successful create persists the captured id immediately so a crash right
// after doesn't orphan the message.
func (p *Publisher) Publish(ctx context.Context, st *stock.State, payload discord.WebhookPayload) error {
	if st.MessageID != "" {
		err := p.sink.Edit(ctx, st.MessageID, payload)
		if err == nil {
			p.log.Info("stock message updated", logx.String("message_id", st.MessageID))
			return nil
		}
		if discord.IsNotFound(err) {
			p.log.Warn("live message vanished; will create fresh on next change",
				logx.String("message_id", st.MessageID))
			st.MessageID = ""
			p.save(ctx, st)
			return err
		}
		p.log.Error("edit failed", logx.String("message_id", st.MessageID), logx.Err(err))
		return err
	}

	id, err := p.sink.Create(ctx, payload)
	if err != nil {
		p.log.Error("create failed", logx.Err(err))
		return err
	}
	st.MessageID = id
	p.save(ctx, st)
	p.log.Info("stock message created", logx.String("message_id", id))
	return nil
}

func (p *Publisher) save(ctx context.Context, st *stock.State) {
	if p.store == nil {
		return
	}
	if err := p.store.Save(ctx, st); err != nil {
		p.log.Error("state save failed", logx.Err(err))
	}
}
