package handoff_test

import (
	"errors"
	"testing"

	"github.com/benmeehan/nav-handoff/internal/mocks"
	"github.com/benmeehan/nav-handoff/pkg/handoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtras_ReadField(t *testing.T) {
	extras := handoff.Extras{
		handoff.KeyBuildingName:   "Library",
		handoff.KeyRoomName:       "",
		handoff.KeyDestinationLat: 7.35,
		handoff.KeyDestinationLng: nil,
	}

	v, err := extras.ReadField(handoff.KeyBuildingName)
	assert.NoError(t, err)
	assert.Equal(t, "Library", v)

	v, err = extras.ReadField(handoff.KeyRoomName)
	assert.NoError(t, err)
	assert.Empty(t, v)

	_, err = extras.ReadField(handoff.KeyDestinationLat)
	assert.ErrorIs(t, err, handoff.ErrFieldType)

	_, err = extras.ReadField(handoff.KeyDestinationLng)
	assert.ErrorIs(t, err, handoff.ErrFieldMissing)

	_, err = extras.ReadField(handoff.KeyBuildingDescription)
	assert.ErrorIs(t, err, handoff.ErrFieldMissing)
}

func TestStore_NoSession(t *testing.T) {
	s := handoff.NewStore(nil)

	assert.False(t, s.HasActiveHandle())
	_, err := s.GetDataObject()
	assert.ErrorIs(t, err, handoff.ErrNoActiveHandle)
}

func TestStore_LatestSessionIsActive(t *testing.T) {
	s := handoff.NewStore(nil)

	s.Put("a", handoff.Extras{handoff.KeyBuildingName: "Library"})
	s.Put("b", handoff.Extras{handoff.KeyBuildingName: "Gym"})

	assert.Equal(t, "b", s.ActiveSession())
	assert.Equal(t, 2, s.Count())

	data, err := s.GetDataObject()
	require.NoError(t, err)
	v, _ := data.ReadField(handoff.KeyBuildingName)
	assert.Equal(t, "Gym", v)
}

func TestStore_IssuedAtOrdering(t *testing.T) {
	s := handoff.NewStore(nil)

	assert.True(t, s.Put("new", handoff.Extras{handoff.KeyIssuedAt: "2026-03-02T09:00:00Z"}))

	// An older session replayed by the broker does not take over.
	assert.False(t, s.Put("old", handoff.Extras{handoff.KeyIssuedAt: "2026-03-01T09:00:00Z"}))
	assert.Equal(t, "new", s.ActiveSession())
	assert.Equal(t, 2, s.Count())

	assert.True(t, s.Put("newer", handoff.Extras{handoff.KeyIssuedAt: "2026-03-02T11:00:00+01:00"}))
	assert.Equal(t, "newer", s.ActiveSession())

	// Without a timestamp the latest arrival wins.
	assert.True(t, s.Put("untimed", handoff.Extras{handoff.KeyBuildingName: "Gym"}))
	assert.Equal(t, "untimed", s.ActiveSession())

	// Removing the active session lets any timestamped session become active again.
	s.Remove("untimed")
	assert.True(t, s.Put("old", handoff.Extras{handoff.KeyIssuedAt: "2026-03-01T09:00:00Z"}))
	assert.Equal(t, "old", s.ActiveSession())
}

func TestExtras_IssuedAt(t *testing.T) {
	assert.True(t, handoff.Extras{}.IssuedAt().IsZero())
	assert.True(t, handoff.Extras{handoff.KeyIssuedAt: "yesterday"}.IssuedAt().IsZero())
	assert.True(t, handoff.Extras{handoff.KeyIssuedAt: 1700000000}.IssuedAt().IsZero())
	assert.Equal(t, 2026, handoff.Extras{handoff.KeyIssuedAt: "2026-03-02T09:00:00Z"}.IssuedAt().Year())
}

func TestStore_Remove(t *testing.T) {
	s := handoff.NewStore(nil)
	s.Put("a", handoff.Extras{})
	s.Put("b", handoff.Extras{})

	s.Remove("a")
	assert.Equal(t, "b", s.ActiveSession())

	s.Remove("b")
	assert.False(t, s.HasActiveHandle())
	assert.Equal(t, 0, s.Count())
}

func TestStore_PutError(t *testing.T) {
	s := handoff.NewStore(nil)
	readErr := errors.New("decode hand-off extras: unexpected EOF")

	s.PutError("a", readErr)

	assert.True(t, s.HasActiveHandle())
	_, err := s.GetDataObject()
	assert.ErrorIs(t, err, readErr)
}

func TestStore_NilExtras(t *testing.T) {
	s := handoff.NewStore(nil)
	s.Put("a", nil)

	_, err := s.GetDataObject()
	assert.ErrorIs(t, err, handoff.ErrNoDataObject)
}

func TestStore_VersionGate(t *testing.T) {
	gate, err := handoff.NewVersionGate(">= 1.2.0, < 2.0.0")
	require.NoError(t, err)

	s := handoff.NewStore(gate)

	s.Put("old", handoff.Extras{handoff.KeyVersion: "1.0.0"})
	_, err = s.GetDataObject()
	assert.ErrorIs(t, err, handoff.ErrIncompatibleVersion)

	s.Put("current", handoff.Extras{handoff.KeyVersion: "1.4.1"})
	_, err = s.GetDataObject()
	assert.NoError(t, err)

	s.Put("unversioned", handoff.Extras{handoff.KeyBuildingName: "Library"})
	_, err = s.GetDataObject()
	assert.NoError(t, err)

	s.Put("garbage", handoff.Extras{handoff.KeyVersion: "latest"})
	_, err = s.GetDataObject()
	assert.ErrorIs(t, err, handoff.ErrIncompatibleVersion)
}

func TestNewVersionGate(t *testing.T) {
	gate, err := handoff.NewVersionGate("")
	assert.NoError(t, err)
	assert.Nil(t, gate)
	assert.NoError(t, gate.Check(handoff.Extras{handoff.KeyVersion: "0.0.1"}))

	_, err = handoff.NewVersionGate("not a constraint")
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		mockFile := new(mocks.MockFileOperations)
		mockFile.On("IsFileExists", "handoff.json").Return(false, nil)

		src := handoff.NewFileSource("handoff.json", mockFile, nil)
		assert.False(t, src.HasActiveHandle())
	})

	t.Run("stat error", func(t *testing.T) {
		mockFile := new(mocks.MockFileOperations)
		mockFile.On("IsFileExists", "handoff.json").Return(false, errors.New("permission denied"))

		src := handoff.NewFileSource("handoff.json", mockFile, nil)
		assert.False(t, src.HasActiveHandle())
	})

	t.Run("readable", func(t *testing.T) {
		mockFile := new(mocks.MockFileOperations)
		mockFile.On("IsFileExists", "handoff.json").Return(true, nil)
		mockFile.On("ReadJsonFile", "handoff.json", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(1).(*handoff.Extras) = handoff.Extras{handoff.KeyBuildingName: "Library"}
			}).
			Return(nil)

		src := handoff.NewFileSource("handoff.json", mockFile, nil)
		require.True(t, src.HasActiveHandle())

		data, err := src.GetDataObject()
		require.NoError(t, err)
		v, _ := data.ReadField(handoff.KeyBuildingName)
		assert.Equal(t, "Library", v)
	})

	t.Run("unreadable", func(t *testing.T) {
		mockFile := new(mocks.MockFileOperations)
		mockFile.On("ReadJsonFile", "handoff.json", mock.Anything).Return(errors.New("decode handoff.json: unexpected EOF"))

		_, err := handoff.NewFileSource("handoff.json", mockFile, nil).GetDataObject()
		assert.Error(t, err)
	})

	t.Run("null document", func(t *testing.T) {
		mockFile := new(mocks.MockFileOperations)
		mockFile.On("ReadJsonFile", "handoff.json", mock.Anything).Return(nil)

		_, err := handoff.NewFileSource("handoff.json", mockFile, nil).GetDataObject()
		assert.ErrorIs(t, err, handoff.ErrNoDataObject)
	})
}
