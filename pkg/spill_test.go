package pkg

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

type spillItem struct {
	ID   string
	Text string
}

func TestSpill(t *testing.T) {
	spill, err := NewSpill[spillItem]()
	require.NoError(t, err)

	const items = 100

	for i := 0; i < items; i++ {
		require.NoError(t, spill.Append(spillItem{
			ID:   fmt.Sprintf("item-%03d", i),
			Text: fmt.Sprintf("diagnostics for %d", i),
		}))
	}

	require.Equal(t, uint64(items), spill.Len())

	t.Run("range replays in append order", func(t *testing.T) {
		var seen []string

		err := spill.Range(func(index uint64, item spillItem) error {
			require.Equal(t, fmt.Sprintf("item-%03d", index), item.ID)
			seen = append(seen, item.ID)

			return nil
		})
		require.NoError(t, err)
		require.Len(t, seen, items)
	})

	t.Run("range can be repeated", func(t *testing.T) {
		count := 0

		require.NoError(t, spill.Range(func(uint64, spillItem) error {
			count++
			return nil
		}))
		require.Equal(t, items, count)
	})

	t.Run("range stops on the callback error", func(t *testing.T) {
		sentinel := errors.New("stop")
		count := 0

		err := spill.Range(func(uint64, spillItem) error {
			count++
			if count == 3 {
				return sentinel
			}

			return nil
		})
		require.ErrorIs(t, err, sentinel)
		require.Equal(t, 3, count)
	})

	t.Run("close removes the backing file", func(t *testing.T) {
		path := spill.Path()

		_, err := os.Stat(path)
		require.NoError(t, err)

		require.NoError(t, spill.Close())

		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}

func TestSpillEmpty(t *testing.T) {
	spill, err := NewSpill[spillItem]()
	require.NoError(t, err)

	defer func() { require.NoError(t, spill.Close()) }()

	require.Zero(t, spill.Len())

	require.NoError(t, spill.Range(func(uint64, spillItem) error {
		t.Fatal("callback should not run for an empty spill")
		return nil
	}))
}
