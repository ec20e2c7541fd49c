package seat

import (
	"testing"

	"github.com/bnema/waycore/internal/registry"
	"github.com/stretchr/testify/assert"
)

func TestDataSourceAddMime(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client.ID(), 3, events)

	src.AddMime("text/plain")
	src.AddMime("text/plain")
	src.AddMime("text/html")

	assert.Equal(t, []string{"text/plain", "text/html"}, src.MimeTypes())
	assert.True(t, src.HasMime("text/plain"))
	assert.False(t, src.HasMime("image/png"))
}

func TestDataSourceAddMimeIgnoredOnceFrozen(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	src := NewDataSource(reg, client.ID(), 3, &fakeSourceEvents{})

	src.AddMime("text/plain")
	src.Freeze()
	src.AddMime("text/html")

	assert.Equal(t, []string{"text/plain"}, src.MimeTypes())
}

func TestDataSourceSetActions(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client.ID(), 3, events)

	assert.NoError(t, src.SetActions(DndActionNone))
	assert.Equal(t, DndActionNone, src.Actions())

	assert.NoError(t, src.SetActions(DndActionCopy|DndActionMove))
	assert.Equal(t, DndActionCopy|DndActionMove, src.Actions())
	assert.Nil(t, events.errCode)
}

func TestDataSourceSetActionsRejectsUnknownBits(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client.ID(), 3, events)

	err := src.SetActions(DndAction(1 << 10))
	assert.ErrorIs(t, err, ErrProtocol)
	assert.NotNil(t, events.errCode)
	assert.Equal(t, DataSourceErrorInvalidActionMask, *events.errCode)
}

func TestDataSourceSetActionsRejectsOldVersion(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client.ID(), 2, events)

	err := src.SetActions(DndActionCopy)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDataSourceSetActionsRejectedAfterFreeze(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	events := &fakeSourceEvents{}
	src := NewDataSource(reg, client.ID(), 3, events)

	src.Freeze()
	err := src.SetActions(DndActionCopy)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDataSourceWithMetadataFailsWhenDead(t *testing.T) {
	reg := registry.New()
	client := reg.NewObject(0, 1)
	src := NewDataSource(reg, client.ID(), 3, &fakeSourceEvents{})
	reg.Destroy(src.ID())

	err := src.WithMetadata(func(SourceMetadata) {
		t.Fatal("should not be called on a dead source")
	})
	assert.ErrorIs(t, err, ErrDeadResource)
}
