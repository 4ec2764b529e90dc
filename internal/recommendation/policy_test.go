package recommendation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
)

func completeProfile() *profile.Profile {
	return &profile.Profile{
		ID:                "user-1",
		FirstName:         "Ada",
		Email:             "ada@example.com",
		ProfilePictureURL: "https://cdn.example.com/ada.jpg",
	}
}

func TestFirstComputeEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*profile.Profile)
		want   bool
	}{
		{
			name:   "complete profile",
			mutate: func(_ *profile.Profile) {},
			want:   true,
		},
		{
			name:   "blank first name",
			mutate: func(p *profile.Profile) { p.FirstName = "" },
			want:   false,
		},
		{
			name:   "whitespace first name",
			mutate: func(p *profile.Profile) { p.FirstName = "   " },
			want:   false,
		},
		{
			name: "no contact info",
			mutate: func(p *profile.Profile) {
				p.Email = ""
				p.Phone = ""
			},
			want: false,
		},
		{
			name: "phone instead of email",
			mutate: func(p *profile.Profile) {
				p.Email = ""
				p.Phone = "+31600000000"
			},
			want: true,
		},
		{
			name:   "no profile picture",
			mutate: func(p *profile.Profile) { p.ProfilePictureURL = "" },
			want:   false,
		},
		{
			name:   "already computed",
			mutate: func(p *profile.Profile) { p.HasComputedRecommendations = true },
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.mutate(p)
			assert.Equal(t, tt.want, recommendation.FirstComputeEligible(p))
		})
	}

	t.Run("nil profile", func(t *testing.T) {
		assert.False(t, recommendation.FirstComputeEligible(nil))
	})
}

func TestSettingsChanged(t *testing.T) {
	withSettings := func(s profile.Settings) *profile.Profile {
		p := completeProfile()
		p.Settings = &s
		return p
	}

	base := profile.DefaultSettings()

	tests := []struct {
		name string
		prev *profile.Profile
		next *profile.Profile
		want bool
	}{
		{
			name: "distance radius changed",
			prev: withSettings(base),
			next: withSettings(profile.Settings{
				DistanceRadius:   "30 miles",
				Gender:           base.Gender,
				GenderPreference: base.GenderPreference,
				ShowMe:           base.ShowMe,
			}),
			want: true,
		},
		{
			name: "gender preference changed",
			prev: withSettings(base),
			next: withSettings(profile.Settings{
				DistanceRadius:   base.DistanceRadius,
				Gender:           base.Gender,
				GenderPreference: "female",
				ShowMe:           base.ShowMe,
			}),
			want: true,
		},
		{
			name: "own gender changed",
			prev: withSettings(base),
			next: withSettings(profile.Settings{
				DistanceRadius:   base.DistanceRadius,
				Gender:           "male",
				GenderPreference: base.GenderPreference,
				ShowMe:           base.ShowMe,
			}),
			want: false,
		},
		{
			name: "show me toggled",
			prev: withSettings(base),
			next: withSettings(profile.Settings{
				DistanceRadius:   base.DistanceRadius,
				Gender:           base.Gender,
				GenderPreference: base.GenderPreference,
				ShowMe:           false,
			}),
			want: false,
		},
		{
			name: "absent settings read as defaults",
			prev: completeProfile(),
			next: withSettings(base),
			want: false,
		},
		{
			name: "defaults to bounded radius",
			prev: completeProfile(),
			next: withSettings(profile.Settings{
				DistanceRadius:   "50 miles",
				Gender:           base.Gender,
				GenderPreference: base.GenderPreference,
				ShowMe:           base.ShowMe,
			}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recommendation.SettingsChanged(tt.prev, tt.next))
		})
	}
}
