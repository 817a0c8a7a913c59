package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	authdomain "campusmate-backend/internal/auth/domain"
	authrepo "campusmate-backend/internal/auth/repository"
	"campusmate-backend/internal/portal/domain"
	"campusmate-backend/pkg/fcm"
	"campusmate-backend/pkg/logger"

	"github.com/rs/zerolog"
)

// PushNotifier sends a push notification to all of a user's registered
// devices after a portal sync finishes. Stale tokens reported by FCM
// are pruned.
type PushNotifier struct {
	fcmClient *fcm.Client
	tokenRepo authrepo.FCMTokenRepository
	log       zerolog.Logger
}

func NewPushNotifier(fcmClient *fcm.Client, tokenRepo authrepo.FCMTokenRepository) *PushNotifier {
	return &PushNotifier{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
		log:       logger.Component("sync-notify"),
	}
}

func (n *PushNotifier) SyncCompleted(user *authdomain.User, outcome *domain.SyncOutcome) {
	tokens, err := n.tokenRepo.GetTokensByUserID(user.ID)
	if err != nil {
		n.log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to load FCM tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}

	deviceTokens := make([]string, 0, len(tokens))
	for _, t := range tokens {
		deviceTokens = append(deviceTokens, t.Token)
	}

	body := fmt.Sprintf("Synced %d of %d courses from the portal.", outcome.CoursesSynced, outcome.CoursesFound)
	if outcome.HistorySynced {
		body += " Transcript updated."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	failed, err := n.fcmClient.SendToDevices(ctx, deviceTokens, fcm.NotificationData{
		Title: "Grades updated",
		Body:  body,
		Data: map[string]string{
			"type":           "portal_sync",
			"courses_synced": strconv.Itoa(outcome.CoursesSynced),
		},
	})
	if err != nil {
		n.log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send sync notification")
		return
	}
	for _, token := range failed {
		if err := n.tokenRepo.DeleteToken(token); err != nil {
			n.log.Warn().Err(err).Msg("Failed to prune stale FCM token")
		}
	}
}
