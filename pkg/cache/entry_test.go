package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "not expired",
			expires: time.Now().Add(5 * time.Minute),
			want:    false,
		},
		{
			name:    "expired",
			expires: time.Now().Add(-5 * time.Minute),
			want:    true,
		},
		{
			name:    "expires far in the future",
			expires: time.Now().Add(DefaultTTL),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &Entry{Expires: tt.expires}
			if got := entry.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	t.Run("positive TTL", func(t *testing.T) {
		entry := &Entry{Expires: time.Now().Add(10 * time.Minute)}
		ttl := entry.TTL()
		if ttl <= 9*time.Minute || ttl > 10*time.Minute {
			t.Errorf("TTL() = %v, want ~10m", ttl)
		}
	})

	t.Run("expired entry returns zero", func(t *testing.T) {
		entry := &Entry{Expires: time.Now().Add(-time.Minute)}
		if ttl := entry.TTL(); ttl != 0 {
			t.Errorf("TTL() = %v, want 0", ttl)
		}
	})
}

func TestNotFoundEntry(t *testing.T) {
	entry := NotFoundEntry()

	if !entry.NotFound {
		t.Error("NotFoundEntry() should be marked NotFound")
	}
	if entry.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", entry.StatusCode)
	}
	if len(entry.Data) != 0 {
		t.Errorf("Data should be empty, got %d bytes", len(entry.Data))
	}
	if entry.IsExpired() {
		t.Error("fresh negative entry should not be expired")
	}
	if ttl := entry.TTL(); ttl > NotFoundTTL {
		t.Errorf("TTL() = %v, want <= %v", ttl, NotFoundTTL)
	}
}
