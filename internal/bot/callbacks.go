package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/leitnerbot/pkg/models"
)

// Callback actions. Callback data is "action[:cardID[:arg]]" and must stay
// within Telegram's 64 byte limit.
const (
	actionReview  = "review"
	actionBoxes   = "boxes"
	actionOutcome = "outcome"
	actionReveal  = "reveal"
	actionEdit    = "edit"
	actionDelete  = "delete"
	actionCancel  = "cancel"
)

var errBadCallback = errors.New("malformed callback data")

type callbackData struct {
	Action string
	CardID int64
	Arg    string
}

func (c callbackData) String() string {
	var sb strings.Builder
	sb.WriteString(c.Action)
	if c.CardID != 0 || c.Arg != "" {
		sb.WriteString(":")
		sb.WriteString(strconv.FormatInt(c.CardID, 10))
	}
	if c.Arg != "" {
		sb.WriteString(":")
		sb.WriteString(c.Arg)
	}
	return sb.String()
}

func parseCallback(data string) (callbackData, error) {
	parts := strings.SplitN(data, ":", 3)
	if parts[0] == "" {
		return callbackData{}, errBadCallback
	}
	cb := callbackData{Action: parts[0]}
	if len(parts) > 1 {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id < 0 {
			return callbackData{}, fmt.Errorf("%w: card id %q", errBadCallback, parts[1])
		}
		cb.CardID = id
	}
	if len(parts) > 2 {
		cb.Arg = parts[2]
	}
	return cb, nil
}

func outcomeCallback(cardID int64, outcome models.Outcome) string {
	return callbackData{Action: actionOutcome, CardID: cardID, Arg: outcome.String()}.String()
}
