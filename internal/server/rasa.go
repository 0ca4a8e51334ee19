package server

// Wire types of the Rasa action server protocol. Only the fields the
// actions read are decoded; the domain is accepted and ignored.

type webhookRequest struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    tracker `json:"tracker"`
	Version    string  `json:"version"`
}

type tracker struct {
	SenderID      string        `json:"sender_id"`
	LatestMessage latestMessage `json:"latest_message"`
}

type latestMessage struct {
	Text   string  `json:"text"`
	Intent *intent `json:"intent"`
}

type intent struct {
	Name       string   `json:"name"`
	Confidence *float64 `json:"confidence"`
}

type botResponse struct {
	Text string `json:"text"`
}

type webhookResponse struct {
	Events    []any         `json:"events"`
	Responses []botResponse `json:"responses"`
}

type actionName struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name,omitempty"`
}

// rasaTurn adapts one webhook call to actions.Turn and collects the
// messages the action dispatches.
type rasaTurn struct {
	req       *webhookRequest
	responses []botResponse
}

func (t *rasaTurn) SendMessage(text string) {
	t.responses = append(t.responses, botResponse{Text: text})
}

func (t *rasaTurn) LastUserText() string { return t.req.Tracker.LatestMessage.Text }

func (t *rasaTurn) SenderID() string {
	if t.req.Tracker.SenderID != "" {
		return t.req.Tracker.SenderID
	}
	return t.req.SenderID
}

func (t *rasaTurn) Intent() string {
	if in := t.req.Tracker.LatestMessage.Intent; in != nil && in.Name != "" {
		return in.Name
	}
	return ""
}

func (t *rasaTurn) Confidence() (float64, bool) {
	in := t.req.Tracker.LatestMessage.Intent
	if in == nil || in.Confidence == nil {
		return 0, false
	}
	return *in.Confidence, true
}
