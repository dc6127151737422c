package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type RecurringServiceInterface interface {
	ProcessRecurring(ctx context.Context, today time.Time) (int, error)
}

// RecurringHandler exposes the recurring projection as an explicit trigger.
// It is mounted behind the trigger token middleware.
type RecurringHandler struct {
	service RecurringServiceInterface
	log     logrus.FieldLogger
	now     func() time.Time

	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewRecurringHandler(service RecurringServiceInterface, log logrus.FieldLogger) *RecurringHandler {
	return &RecurringHandler{
		service:      service,
		log:          log,
		now:          time.Now,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *RecurringHandler) ProcessRecurring(w http.ResponseWriter, r *http.Request) {
	created, err := h.service.ProcessRecurring(r.Context(), h.now().UTC())
	if err != nil {
		h.log.WithError(err).Error("recurring trigger failed")
		h.respondError(w, http.StatusInternalServerError, "Failed to process recurring transactions")
		return
	}

	h.log.WithField("created", created).Info("recurring trigger processed")
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"created": created,
	})
}
