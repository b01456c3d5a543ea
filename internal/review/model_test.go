package review

import "testing"

func TestFromRow(t *testing.T) {
	name := "Youssef"
	avatar := "https://img.example/y.png"
	empty := ""
	comment := "Clean car"
	reviewerID := "u9"

	tests := []struct {
		name       string
		row        Row
		wantName   string
		wantAvatar string
		wantID     string
	}{
		{
			name:       "full reviewer",
			row:        Row{Reviewer: &ReviewerRow{ID: "u1", Name: &name, AvatarURL: &avatar}},
			wantName:   "Youssef",
			wantAvatar: avatar,
			wantID:     "u1",
		},
		{
			name:       "no reviewer",
			row:        Row{},
			wantName:   "Anonymous User",
			wantAvatar: AvatarPlaceholder,
		},
		{
			name:       "reviewer without profile fields",
			row:        Row{Reviewer: &ReviewerRow{ID: "u2", Name: &empty}},
			wantName:   "Anonymous User",
			wantAvatar: AvatarPlaceholder,
			wantID:     "u2",
		},
		{
			name:       "reviewer id without join",
			row:        Row{ReviewerID: &reviewerID, Comment: &comment},
			wantName:   "Anonymous User",
			wantAvatar: AvatarPlaceholder,
			wantID:     "u9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRow(tt.row, "Anonymous User")
			if got.Reviewer.Name != tt.wantName {
				t.Errorf("name = %q, want %q", got.Reviewer.Name, tt.wantName)
			}
			if got.Reviewer.AvatarURL != tt.wantAvatar {
				t.Errorf("avatar = %q, want %q", got.Reviewer.AvatarURL, tt.wantAvatar)
			}
			if got.Reviewer.ID != tt.wantID {
				t.Errorf("id = %q, want %q", got.Reviewer.ID, tt.wantID)
			}
		})
	}
}
