package session

import (
	"fmt"
	"testing"

	"phonestore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendTurnCapsHistory(t *testing.T) {
	ctx := &Context{}
	for i := 0; i < HistoryCap+5; i++ {
		ctx.AppendTurn(Turn{Message: fmt.Sprintf("msg-%d", i)})
	}

	require.Len(t, ctx.History, HistoryCap)
	// Oldest five entries were evicted.
	assert.Equal(t, "msg-5", ctx.History[0].Message)
	assert.Equal(t, fmt.Sprintf("msg-%d", HistoryCap+4), ctx.History[HistoryCap-1].Message)
}

func TestRecentTurns(t *testing.T) {
	ctx := &Context{}
	for i := 0; i < 5; i++ {
		ctx.AppendTurn(Turn{Message: fmt.Sprintf("msg-%d", i)})
	}

	recent := ctx.RecentTurns(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "msg-2", recent[0].Message)
	assert.Equal(t, "msg-4", recent[2].Message)

	assert.Len(t, ctx.RecentTurns(10), 5)
}

func TestConsultationComplete(t *testing.T) {
	c := Consultation{Purpose: "chụp ảnh", Budget: "10 triệu", Feature: "camera"}
	assert.False(t, c.Complete())

	c.Color = "đen"
	assert.True(t, c.Complete())

	c.Reset()
	assert.Equal(t, Consultation{}, c)
}

func TestCloneIsolatesHistory(t *testing.T) {
	ctx := &Context{LastBrand: "Samsung"}
	ctx.AppendTurn(Turn{Message: "first"})

	snap := ctx.Clone()
	snap.LastBrand = "Apple"
	snap.AppendTurn(Turn{Message: "second"})
	snap.LastProduct = &model.Product{Name: "iPhone 14"}

	assert.Equal(t, "Samsung", ctx.LastBrand)
	assert.Len(t, ctx.History, 1)
	assert.Nil(t, ctx.LastProduct)
	assert.Len(t, snap.History, 2)
}
