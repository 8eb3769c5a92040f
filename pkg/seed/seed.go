package seed

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verifiedtutors/notifykit/pkg/notification"
)

// Known marketplace roles.
const (
	RoleTutor   = "tutor"
	RoleStudent = "student"
)

//go:embed templates.yaml
var rawTemplates []byte

type template struct {
	ID      string            `yaml:"id"`
	Type    notification.Type `yaml:"type"`
	Title   string            `yaml:"title"`
	Message string            `yaml:"message"`
	Action  *struct {
		Label string `yaml:"label"`
		URL   string `yaml:"url"`
	} `yaml:"action"`
}

type templateFile struct {
	Roles  map[string][]template `yaml:"roles"`
	Common []template            `yaml:"common"`
}

var (
	parseOnce sync.Once
	templates templateFile
)

func load() templateFile {
	parseOnce.Do(func() {
		if err := yaml.Unmarshal(rawTemplates, &templates); err != nil {
			// The template file is embedded at build time; a parse failure
			// is a build defect, not a runtime condition.
			panic(fmt.Sprintf("seed: invalid embedded templates: %v", err))
		}
	})
	return templates
}

// Drafts returns the onboarding notifications for the given role, unread and
// stamped with the current time. Role-specific entries come first, followed
// by the unconditional getting-started entry; unknown roles receive only the
// latter.
func Drafts(role string) []notification.Notification {
	file := load()
	now := time.Now()

	entries := append([]template{}, file.Roles[role]...)
	entries = append(entries, file.Common...)

	out := make([]notification.Notification, 0, len(entries))
	for _, tpl := range entries {
		n := notification.Notification{
			ID:        tpl.ID,
			Type:      tpl.Type,
			Title:     tpl.Title,
			Message:   tpl.Message,
			Timestamp: now,
		}
		if tpl.Action != nil {
			n.Action = &notification.Action{Label: tpl.Action.Label, URL: tpl.Action.URL}
		}
		out = append(out, n)
	}
	return out
}
