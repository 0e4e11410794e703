package activities

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, enforceCapacity bool) Repository {
	t.Helper()
	repo, err := NewRepository(DefaultActivities(), enforceCapacity)
	require.NoError(t, err)
	return repo
}

func participantsOf(t *testing.T, repo Repository, name string) []string {
	t.Helper()
	activity, err := repo.GetByName(name)
	require.NoError(t, err)
	return activity.Participants
}

func TestNewRepository_RejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name string
		seed []Activity
	}{
		{
			name: "duplicate activity name",
			seed: []Activity{
				{Name: "Chess Club", MaxParticipants: 10},
				{Name: "Chess Club", MaxParticipants: 12},
			},
		},
		{
			name: "duplicate participant",
			seed: []Activity{
				{Name: "Chess Club", MaxParticipants: 10, Participants: []string{"a@x.edu", "a@x.edu"}},
			},
		},
		{
			name: "zero capacity",
			seed: []Activity{{Name: "Chess Club", MaxParticipants: 0}},
		},
		{
			name: "empty name",
			seed: []Activity{{Name: "", MaxParticipants: 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := NewRepository(tt.seed, false)
			assert.ErrorIs(t, err, ErrInvalidSeed)
			assert.Nil(t, repo)
		})
	}
}

func TestNewRepository_CopiesSeed(t *testing.T) {
	seed := []Activity{{Name: "Chess Club", MaxParticipants: 5, Participants: []string{"a@x.edu"}}}
	repo, err := NewRepository(seed, false)
	require.NoError(t, err)

	seed[0].Participants[0] = "mutated@x.edu"

	assert.Equal(t, []string{"a@x.edu"}, participantsOf(t, repo, "Chess Club"))
}

func TestRepository_ListKeepsSeedOrderAndIsSnapshot(t *testing.T) {
	repo := newTestRepository(t, false)

	list := repo.List()
	require.Len(t, list, len(DefaultActivities()))
	assert.Equal(t, "Chess Club", list[0].Name)
	assert.Equal(t, "Programming Class", list[1].Name)
	assert.Equal(t, "Gym Class", list[2].Name)

	list[0].Participants = append(list[0].Participants[:0], "intruder@x.edu")

	assert.Equal(t, []string{"michael@mergington.edu", "daniel@mergington.edu"}, participantsOf(t, repo, "Chess Club"))
}

func TestRepository_GetByNameUnknown(t *testing.T) {
	repo := newTestRepository(t, false)

	activity, err := repo.GetByName("Underwater Basket Weaving")
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.Nil(t, activity)
}

func TestRepository_AddParticipant(t *testing.T) {
	repo := newTestRepository(t, false)

	require.NoError(t, repo.AddParticipant("Chess Club", "new@mergington.edu"))
	assert.Equal(t,
		[]string{"michael@mergington.edu", "daniel@mergington.edu", "new@mergington.edu"},
		participantsOf(t, repo, "Chess Club"))

	err := repo.AddParticipant("Chess Club", "new@mergington.edu")
	assert.ErrorIs(t, err, ErrAlreadySignedUp)
	assert.Len(t, participantsOf(t, repo, "Chess Club"), 3)

	assert.ErrorIs(t, repo.AddParticipant("Nonexistent", "new@mergington.edu"), ErrActivityNotFound)
}

func TestRepository_RemoveParticipantPreservesOrder(t *testing.T) {
	repo := newTestRepository(t, false)
	require.NoError(t, repo.AddParticipant("Chess Club", "third@mergington.edu"))

	require.NoError(t, repo.RemoveParticipant("Chess Club", "daniel@mergington.edu"))
	assert.Equal(t,
		[]string{"michael@mergington.edu", "third@mergington.edu"},
		participantsOf(t, repo, "Chess Club"))

	assert.ErrorIs(t, repo.RemoveParticipant("Chess Club", "daniel@mergington.edu"), ErrNotRegistered)
	assert.ErrorIs(t, repo.RemoveParticipant("Nonexistent", "daniel@mergington.edu"), ErrActivityNotFound)
}

func TestRepository_CapacityDisplayOnlyByDefault(t *testing.T) {
	repo, err := NewRepository([]Activity{{Name: "Tiny", MaxParticipants: 1, Participants: []string{"a@x.edu"}}}, false)
	require.NoError(t, err)

	assert.NoError(t, repo.AddParticipant("Tiny", "b@x.edu"))
	assert.Len(t, participantsOf(t, repo, "Tiny"), 2)
}

func TestRepository_CapacityEnforced(t *testing.T) {
	repo, err := NewRepository([]Activity{{Name: "Tiny", MaxParticipants: 1, Participants: []string{"a@x.edu"}}}, true)
	require.NoError(t, err)

	assert.ErrorIs(t, repo.AddParticipant("Tiny", "b@x.edu"), ErrActivityFull)
	// duplicates are reported before capacity
	assert.ErrorIs(t, repo.AddParticipant("Tiny", "a@x.edu"), ErrAlreadySignedUp)

	require.NoError(t, repo.RemoveParticipant("Tiny", "a@x.edu"))
	assert.NoError(t, repo.AddParticipant("Tiny", "b@x.edu"))
}

func TestRepository_ConcurrentDuplicateSignupsSucceedOnce(t *testing.T) {
	repo := newTestRepository(t, false)

	const workers = 50
	var successes atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.AddParticipant("Gym Class", "racer@mergington.edu") == nil {
				successes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Len(t, participantsOf(t, repo, "Gym Class"), 3)
}

func TestRepository_ConcurrentDistinctSignupsAllLand(t *testing.T) {
	repo := newTestRepository(t, false)

	const workers = 40
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.AddParticipant("Programming Class", fmt.Sprintf("student%d@mergington.edu", i)))
			_ = repo.List()
		}(i)
	}
	wg.Wait()

	assert.Len(t, participantsOf(t, repo, "Programming Class"), 2+workers)
}

func TestRepository_ConcurrentCapacityNeverExceeded(t *testing.T) {
	repo, err := NewRepository([]Activity{{Name: "Tiny", MaxParticipants: 5}}, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.AddParticipant("Tiny", fmt.Sprintf("s%d@x.edu", i))
		}(i)
	}
	wg.Wait()

	assert.Len(t, participantsOf(t, repo, "Tiny"), 5)
}
