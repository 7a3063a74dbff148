package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"fitstudio/internal/logger"
	"fitstudio/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "fitstudio:emails"
	failedKey = "fitstudio:emails:failed"
	maxTries  = 3

	kindConfirmation = "booking_confirmation"
)

type Job struct {
	Kind    string    `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Config struct {
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	RedisAddr string
}

// Service queues outgoing mail in a Redis list; Start drains it over SMTP.
type Service struct {
	redis *redis.Client
	cfg   Config
	send  func(Job) error
}

func New(cfg Config) *Service {
	return newService(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), cfg)
}

func newService(rdb *redis.Client, cfg Config) *Service {
	s := &Service{redis: rdb, cfg: cfg}
	s.send = s.sendSMTP
	return s
}

func (s *Service) SendBookingConfirmation(ctx context.Context, to, name, className string, when time.Time) error {
	subject := "Booking Confirmed - " + className
	body := fmt.Sprintf(`Hi %s,

Your spot is reserved!

Class: %s
Time: %s

See you at the studio!

- %s`, name, className, when.Format("Jan 2, 2006 at 3:04 PM (MST)"), s.cfg.FromName)

	return s.enqueue(ctx, Job{Kind: kindConfirmation, To: to, Name: name, Subject: subject, Body: body})
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		return fmt.Errorf("queue email to %s: %w", job.To, err)
	}

	logger.Debug("email queued", "kind", job.Kind, "to", job.To)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			if err := s.processNext(ctx); err != nil && ctx.Err() == nil {
				logger.Error("email queue read failed", "error", err)
				select {
				case <-ctx.Done():
				case <-time.After(time.Second):
				}
				continue
			}
			s.QueueLength(ctx)
		}
	}
}

// processNext handles at most one job. An empty queue is not an error.
func (s *Service) processNext(ctx context.Context) error {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return nil
	}

	job.Tries++
	if err := s.send(job); err != nil {
		metrics.RecordEmail(job.Kind, "failed")
		logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			data, _ := json.Marshal(job)
			return s.redis.LPush(ctx, queueKey, string(data)).Err()
		}
		return s.saveFailed(ctx, job, err)
	}

	metrics.RecordEmail(job.Kind, "success")
	logger.Info("email sent", "kind", job.Kind, "to", job.To)
	return nil
}

func (s *Service) sendSMTP(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
	}

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	return smtp.SendMail(addr, auth, s.cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) error {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
	return s.redis.LPush(ctx, failedKey, string(data)).Err()
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
