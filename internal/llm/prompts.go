package llm

import (
	"fmt"
	"strings"
)

// DraftInput is the contact context rendered into the drafting prompt.
// Empty fields fall back to neutral placeholders.
type DraftInput struct {
	Name            string
	Birthday        string
	Notes           string
	LastContactDate string
	ContactGroup    string
	CustomPrompt    string
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// DraftPrompt generates the prompt for drafting a reconnect message.
func DraftPrompt(in DraftInput) string {
	custom := ""
	if c := strings.TrimSpace(in.CustomPrompt); c != "" {
		custom = "\nAdditional context: " + c
	}

	return fmt.Sprintf(`You are helping me draft a personalized WhatsApp message to reconnect with a friend.

Contact Information:
- Name: %s
- Birthday: %s
- Notes: %s
- Last contacted: %s
- Contact group: %s

Please draft a warm, friendly, and personal message that:
1. Is appropriate for WhatsApp
2. Shows genuine care and interest
3. References their birthday if it's recent or upcoming
4. Mentions any relevant notes if appropriate
5. Is conversational and not too formal
6. Keeps it concise (2-3 sentences max)
%s

Draft the message now:`,
		orDefault(in.Name, "Friend"),
		orDefault(in.Birthday, "Not specified"),
		orDefault(in.Notes, "No notes"),
		orDefault(in.LastContactDate, "Unknown"),
		orDefault(in.ContactGroup, "friends"),
		custom,
	)
}
