package navigation

import (
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/screen"
)

// pushContext is the snapshot a push runs against.
type pushContext struct {
	enter      *screen.Entity
	exit       *screen.Entity
	enterIndex int
}

func newPushContext(stack []*screen.Entity, enter *screen.Entity) pushContext {
	ctx := pushContext{enter: enter, enterIndex: len(stack)}
	if n := len(stack); n > 0 {
		ctx.exit = stack[n-1]
	}
	return ctx
}

// popContext is the snapshot a pop runs against. exits are most recent
// first; enter is nil when the pop empties the stack.
type popContext struct {
	exits      []*screen.Entity
	enter      *screen.Entity
	enterIndex int
	topIndex   int
}

func newPopContext(stack []*screen.Entity, count int) (popContext, error) {
	const op = "navigation.newPopContext"
	n := len(stack)
	if n == 0 {
		return popContext{}, errors.InvalidState(op, "stack is empty")
	}
	if count < 1 || count > n {
		return popContext{}, errors.InvalidState(op, "cannot pop %d of %d entities", count, n)
	}
	ctx := popContext{
		exits:      make([]*screen.Entity, 0, count),
		enterIndex: n - count - 1,
		topIndex:   n - 1,
	}
	for i := n - 1; i >= n-count; i-- {
		ctx.exits = append(ctx.exits, stack[i])
	}
	if ctx.enterIndex >= 0 {
		ctx.enter = stack[ctx.enterIndex]
	}
	return ctx, nil
}

// exitIndex returns the stack index of exits[i].
func (c popContext) exitIndex(i int) int { return c.topIndex - i }

// sheetContext is the snapshot a show or hide runs against.
type sheetContext struct {
	enter *screen.Entity
	exit  *screen.Entity
}

func newSheetContext(active, requested *screen.Entity) sheetContext {
	return sheetContext{enter: requested, exit: active}
}

func idOf(e *screen.Entity) string {
	if e == nil {
		return ""
	}
	return e.ID()
}

func viewOf(e *screen.Entity) any {
	if e == nil {
		return nil
	}
	return e.View()
}
