package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/quillpost/internal/common"
)

func TestParseTemplate(t *testing.T) {
	template := &Template{}

	testCases := []struct {
		name         string
		templateName string
		data         any
		contains     string
		expectedErr  bool
	}{
		{
			name:         "welcome",
			templateName: WelcomeTemplate,
			data:         common.UserRegisteredEvent{Username: "alice", Email: "a@x.com"},
			contains:     "alice",
		},
		{
			name:         "comment notification",
			templateName: CommentNotificationTemplate,
			data:         common.CommentAddedEvent{OwnerUsername: "alice", BlogTitle: "Hi", Commenter: "bob", Content: "<b>nice</b>"},
			contains:     "bob",
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.Contains(t, s.String(), tc.contains)
				assert.Contains(t, p.String(), tc.contains)
				assert.Contains(t, h.String(), tc.contains)
				assert.NotContains(t, h.String(), "<b>nice</b>")
			}
		})
	}
}
