package chat

import (
	"context"
	"errors"
	"fmt"

	recordsRepo "aitana/database/repository/records"
	"aitana/models"
	"aitana/services/relay"
	"aitana/utils"

	"go.uber.org/zap"
)

// ErrNoGateway is returned when the service was wired without any
// completion gateway.
var ErrNoGateway = errors.New("no completion gateway configured")

// ChatService drives one visitor turn end to end.
type ChatService interface {
	ProcessMessage(ctx context.Context, token, message string) (string, error)
}

// HandoffDispatcher hands a finalized booking off to a background queue.
// Once a dispatcher accepts the task, retries are its responsibility.
type HandoffDispatcher interface {
	Dispatch(ctx context.Context, token, memory string) error
}

// DefaultChatService is the production implementation. Threads, Relay,
// Records and Dispatcher are optional; Store plus one gateway are required.
type DefaultChatService struct {
	Store      SessionStore
	Gateway    CompletionGateway
	Threads    ThreadedGateway // used instead of Gateway when set
	Relay      relay.Relay
	Records    recordsRepo.RecordRepository
	Dispatcher HandoffDispatcher // used instead of Relay/Records when set
}

// ProcessMessage resolves the session, threads memory and the rolling
// window into a gateway call, parses the reply, applies the session update
// and dispatches the handoff when the completion marker was seen. A gateway
// failure leaves the stored session exactly as it was before the call.
func (s *DefaultChatService) ProcessMessage(ctx context.Context, token, message string) (string, error) {
	sess, err := s.Store.GetOrCreate(ctx, token)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}

	sess.Conversation = appendTurn(sess.Conversation, models.RoleUser, message)
	systemPrompt := BuildSystemPrompt(sess.Memory)

	reply, err := s.invokeGateway(ctx, sess, systemPrompt, message)
	if err != nil {
		// Nothing was saved, so memory and log are untouched.
		return "", fmt.Errorf("completion gateway: %w", err)
	}

	// The raw reply goes into the window; the model is instructed to keep
	// emitting the trailing snippet and benefits from seeing its own.
	sess.Conversation = appendTurn(sess.Conversation, models.RoleAssistant, reply)

	parsed := ParseReply(reply, sess.Memory)
	sess.Memory = parsed.Memory

	if parsed.ShouldHandoff && !sess.HandedOff {
		if s.Dispatcher != nil {
			s.enqueueHandoff(ctx, sess)
		} else {
			s.dispatchHandoff(ctx, sess)
		}
	}

	if err := s.Store.Save(ctx, sess); err != nil {
		utils.GetLogger().Error("Failed to persist chat session",
			zap.String("token", token), zap.Error(err))
	}
	return parsed.VisibleText, nil
}

func (s *DefaultChatService) invokeGateway(ctx context.Context, sess *models.Session, systemPrompt, message string) (string, error) {
	if s.Threads != nil {
		handle, reply, err := s.Threads.ContinueThread(ctx, sess.ThreadHandle, systemPrompt, message)
		if err != nil {
			return "", err
		}
		sess.ThreadHandle = handle
		return reply, nil
	}
	if s.Gateway != nil {
		return s.Gateway.Complete(ctx, AssembleMessages(systemPrompt, sess.Conversation))
	}
	return "", ErrNoGateway
}

// enqueueHandoff puts the summary dispatch on the background queue. The
// handed-off flag is set on enqueue: the queue owns delivery retries from
// there, so a later marker must not enqueue a duplicate. An enqueue failure
// leaves the flag clear for a retry on the next marker.
func (s *DefaultChatService) enqueueHandoff(ctx context.Context, sess *models.Session) {
	logger := utils.GetLogger()
	if err := s.Dispatcher.Dispatch(ctx, sess.Token, sess.Memory); err != nil {
		logger.Error("Failed to enqueue handoff", zap.String("token", sess.Token), zap.Error(err))
		return
	}
	sess.HandedOff = true
	logger.Info("Handoff enqueued", zap.String("token", sess.Token))
}

// dispatchHandoff sends the booking summary to the relay and archives it.
// Failures are logged and never surface to the visitor; the handed-off flag
// is only set once the relay accepted the summary, so a transient relay
// outage can be retried by a later completion marker.
func (s *DefaultChatService) dispatchHandoff(ctx context.Context, sess *models.Session) {
	logger := utils.GetLogger()

	summary, err := FormatSummary(sess.Memory)
	if err != nil {
		logger.Error("Cannot render booking summary", zap.Error(err))
		return
	}

	if s.Relay == nil {
		logger.Warn("Completion marker seen but no relay configured")
		return
	}
	if err := s.Relay.Send(ctx, summary); err != nil {
		logger.Error("Failed to relay booking summary", zap.Error(err))
		return
	}
	sess.HandedOff = true
	logger.Info("Booking summary relayed", zap.String("token", sess.Token))

	if s.Records != nil {
		m, err := DecodeMemory(sess.Memory)
		if err != nil {
			logger.Error("Cannot decode memory for archive", zap.Error(err))
			return
		}
		record := models.HandoffRecord{
			SessionToken: sess.Token,
			Name:         m.Name,
			Email:        m.Email,
			Phone:        m.Phone,
			Location:     m.Location,
			Artist:       m.Artist,
			PriceRange:   m.PriceRange,
			Description:  m.Description,
			Date:         m.Date,
		}
		if _, err := s.Records.Create(ctx, record); err != nil {
			logger.Error("Failed to archive handoff record", zap.Error(err))
		}
	}
}

// appendTurn adds a turn and drops the oldest ones until the log fits the
// rolling window again. Oldest-first eviction, never newest.
func appendTurn(conversation []models.ChatMessage, role, content string) []models.ChatMessage {
	conversation = append(conversation, models.ChatMessage{Role: role, Content: content})
	for len(conversation) > WindowLimit {
		conversation = conversation[1:]
	}
	return conversation
}
