package repos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wheelibin/homesync/internal/repos"
)

func Test_GroupRepo_VirtualRooms(t *testing.T) {

	t.Run("create | should persist with members", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		created, err := repo.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		listed, err := repo.ListVirtualRooms()
		assert.NoError(t, err)
		assert.Len(t, listed, 1)
		assert.Equal(t, "Master Suite", listed[0].Name)
		assert.Equal(t, "a1", listed[0].AreaID)
		assert.ElementsMatch(t, []string{"r1", "r2"}, listed[0].SourceRoomIDs)
	})

	t.Run("create with one room | should be rejected", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		_, err = repo.CreateVirtualRoom("Lonely", "a1", []string{"r1"})
		assert.ErrorIs(t, err, repos.ErrTooFewRooms)

		listed, err := repo.ListVirtualRooms()
		assert.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("rename | should update the name only", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		created, _ := repo.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})
		assert.NoError(t, repo.RenameVirtualRoom(created.ID, "Guest Suite"))

		listed, _ := repo.ListVirtualRooms()
		assert.Equal(t, "Guest Suite", listed[0].Name)
		assert.ElementsMatch(t, []string{"r1", "r2"}, listed[0].SourceRoomIDs)
	})

	t.Run("delete | should remove the room and its members", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		created, _ := repo.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})
		assert.NoError(t, repo.DeleteVirtualRoom(created.ID))

		listed, _ := repo.ListVirtualRooms()
		assert.Empty(t, listed)
	})

	t.Run("list | should order by name", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		_, _ = repo.CreateVirtualRoom("Zeta Wing", "", []string{"r5", "r6"})
		_, _ = repo.CreateVirtualRoom("Alpha Wing", "", []string{"r1", "r2"})

		listed, _ := repo.ListVirtualRooms()
		assert.Equal(t, "Alpha Wing", listed[0].Name)
		assert.Equal(t, "Zeta Wing", listed[1].Name)
	})
}

func Test_GroupRepo_AudioZones(t *testing.T) {

	t.Run("create and list | should round-trip", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		created, err := repo.CreateAudioZone("Party Mode", []string{"m1", "m2"})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)

		listed, err := repo.ListAudioZones()
		assert.NoError(t, err)
		assert.Len(t, listed, 1)
		assert.ElementsMatch(t, []string{"m1", "m2"}, listed[0].MediaRoomIDs)
	})

	t.Run("delete | should remove the zone and its members", func(t *testing.T) {
		repo, err := repos.NewGroupRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		created, _ := repo.CreateAudioZone("Party Mode", []string{"m1"})
		assert.NoError(t, repo.DeleteAudioZone(created.ID))

		listed, _ := repo.ListAudioZones()
		assert.Empty(t, listed)
	})
}
