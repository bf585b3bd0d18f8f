// Playbook loading for the intent classifier.
//
// A playbook is a small markdown file maintained by the support team. Each
// `## <intent-name>` section lists example utterances as `- ` bullets and the
// canned reply as a `> ` blockquote:
//
//	## opening-hours
//	- what time do you open
//	- are you open on saturday
//	> The clinic is open Monday to Friday, 8am to 6pm.
//
// Sections missing a name, a reply, or at least one utterance are skipped.
package intent

import (
	"bufio"
	"os"
	"strings"
)

// LoadPlaybook parses the markdown playbook at path into intent entries.
func LoadPlaybook(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		entries []Entry
		cur     *Entry
		reply   []string
	)
	flush := func() {
		if cur != nil {
			cur.Reply = strings.TrimSpace(strings.Join(reply, " "))
			if cur.Reply != "" && len(cur.Utterances) > 0 {
				entries = append(entries, *cur)
			}
		}
		cur = nil
		reply = nil
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			name := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if name != "" {
				cur = &Entry{Name: name}
			}
		case cur != nil && strings.HasPrefix(line, "- "):
			if u := strings.TrimSpace(strings.TrimPrefix(line, "- ")); u != "" {
				cur.Utterances = append(cur.Utterances, u)
			}
		case cur != nil && strings.HasPrefix(line, "> "):
			reply = append(reply, strings.TrimSpace(strings.TrimPrefix(line, "> ")))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return entries, nil
}

// DefaultEntries returns the built-in clinic playbook used when no playbook
// file is configured.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Name: "greeting",
			Utterances: []string{
				"hi",
				"hello",
				"good morning",
				"hey there",
			},
			Reply: "Hello! Welcome to the clinic support chat. How can we help you today?",
		},
		{
			Name: "opening-hours",
			Utterances: []string{
				"what are your opening hours",
				"what time do you open",
				"are you open on the weekend",
				"when does the clinic close",
			},
			Reply: "The clinic is open Monday to Friday from 8am to 6pm, and Saturday from 9am to 1pm.",
		},
		{
			Name: "appointment",
			Utterances: []string{
				"i want to book an appointment",
				"how do i schedule a visit",
				"can i see a doctor tomorrow",
				"reschedule my appointment",
			},
			Reply: "You can book or reschedule an appointment by calling the front desk, or a support agent will assist you here shortly.",
		},
		{
			Name: "prescription",
			Utterances: []string{
				"i need a prescription refill",
				"renew my medication",
				"my prescription ran out",
			},
			Reply: "For prescription refills, please share your name and date of birth and a support agent will pass the request to your doctor.",
		},
		{
			Name: "emergency",
			Utterances: []string{
				"this is an emergency",
				"severe chest pain",
				"i cannot breathe",
				"urgent help needed",
			},
			Reply: "If this is a medical emergency, please call your local emergency number immediately. This chat is not monitored for emergencies.",
		},
	}
}
