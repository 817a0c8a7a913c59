package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	authrepo "campusmate-backend/internal/auth/repository"
	"campusmate-backend/internal/task/repository"
	"campusmate-backend/pkg/fcm"
	"campusmate-backend/pkg/logger"
)

// TaskReminderScheduler sends FCM reminders for tasks whose reminder time
// has passed.
type TaskReminderScheduler struct {
	taskRepo  repository.TaskRepository
	fcmRepo   authrepo.FCMTokenRepository
	fcmClient *fcm.Client
	interval  time.Duration
	stopChan  chan struct{}
	log       zerolog.Logger
}

func NewTaskReminderScheduler(
	taskRepo repository.TaskRepository,
	fcmRepo authrepo.FCMTokenRepository,
	fcmClient *fcm.Client,
) *TaskReminderScheduler {
	return &TaskReminderScheduler{
		taskRepo:  taskRepo,
		fcmRepo:   fcmRepo,
		fcmClient: fcmClient,
		interval:  time.Minute,
		stopChan:  make(chan struct{}),
		log:       logger.Component("task-scheduler"),
	}
}

// Start begins the scheduler loop
func (s *TaskReminderScheduler) Start() {
	if s.fcmClient == nil {
		s.log.Info().Msg("FCM client not available, reminder scheduler disabled")
		return
	}

	s.log.Info().Dur("interval", s.interval).Msg("Starting task reminder scheduler")

	go func() {
		s.checkAndSendReminders()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.checkAndSendReminders()
			case <-s.stopChan:
				s.log.Info().Msg("Reminder scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *TaskReminderScheduler) Stop() {
	close(s.stopChan)
}

func (s *TaskReminderScheduler) checkAndSendReminders() {
	tasks, err := s.taskRepo.FindPendingReminders(time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("Could not load pending reminders")
		return
	}
	if len(tasks) == 0 {
		return
	}

	s.log.Info().Int("task_count", len(tasks)).Msg("Sending task reminders")

	for _, task := range tasks {
		tokens, err := s.fcmRepo.GetTokensByUserID(task.UserID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", task.UserID).Msg("Could not load FCM tokens")
			continue
		}
		if len(tokens) == 0 {
			// no registered devices, mark as sent so it never fires again
			_ = s.taskRepo.MarkReminderSent(task.ID)
			continue
		}

		body := task.Description
		if body == "" {
			body = "You have a task due soon"
		}
		if task.DueDate != nil {
			body = fmt.Sprintf("%s\nDue: %s", body, task.DueDate.Format("02 Jan 2006 15:04"))
		}

		var tokenStrings []string
		for _, t := range tokens {
			tokenStrings = append(tokenStrings, t.Token)
		}

		notification := fcm.NotificationData{
			Title: "Reminder: " + task.Title,
			Body:  body,
			Data: map[string]string{
				"type":         "task_reminder",
				"task_id":      task.ID,
				"priority":     string(task.Priority),
				"click_action": "/tasks",
			},
		}

		failedTokens, err := s.fcmClient.SendToDevices(context.Background(), tokenStrings, notification)
		if err != nil {
			s.log.Warn().Err(err).Str("task_id", task.ID).Msg("Could not send reminder")
		}
		for _, token := range failedTokens {
			_ = s.fcmRepo.DeleteToken(token)
		}

		// Mark as sent regardless of delivery outcome to avoid spamming
		if err := s.taskRepo.MarkReminderSent(task.ID); err != nil {
			s.log.Warn().Err(err).Str("task_id", task.ID).Msg("Could not mark reminder as sent")
		}
	}
}
