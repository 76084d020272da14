package jast

// Cursor is a position in a traversal: the current node plus the chain of
// ancestor frames. Each frame carries its own message map, so values put on
// an enclosing frame are visible to every descendant visit and vanish when
// the traversal leaves that frame.
type Cursor struct {
	parent   *Cursor
	node     *Node
	messages map[string]any
}

// NewCursor creates a root cursor positioned on n.
func NewCursor(n *Node) *Cursor {
	return &Cursor{node: n}
}

// Node returns the node under the cursor.
func (c *Cursor) Node() *Node {
	return c.node
}

// Parent returns the enclosing frame, or nil at the root.
func (c *Cursor) Parent() *Cursor {
	return c.parent
}

// Push returns a child frame positioned on n.
func (c *Cursor) Push(n *Node) *Cursor {
	return &Cursor{parent: c, node: n}
}

// PutMessage stores a value on this frame.
func (c *Cursor) PutMessage(key string, value any) {
	if c.messages == nil {
		c.messages = make(map[string]any)
	}

	c.messages[key] = value
}

// Message returns a value stored on this frame only.
func (c *Cursor) Message(key string) (any, bool) {
	value, ok := c.messages[key]

	return value, ok
}

// PollMessage returns and removes a value stored on this frame.
func (c *Cursor) PollMessage(key string) (any, bool) {
	value, ok := c.messages[key]
	if ok {
		delete(c.messages, key)
	}

	return value, ok
}

// NearestMessage searches this frame and then each ancestor frame.
func (c *Cursor) NearestMessage(key string) (any, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if value, ok := cur.messages[key]; ok {
			return value, true
		}
	}

	return nil, false
}

// FirstEnclosing returns the nearest frame, this one included, whose node has
// one of the given kinds.
func (c *Cursor) FirstEnclosing(kinds ...string) *Cursor {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.node.Is(kinds...) {
			return cur
		}
	}

	return nil
}

// PutMessageOnFirstEnclosing stores a value on the nearest frame of the given
// kind. It reports false when no such frame exists.
func (c *Cursor) PutMessageOnFirstEnclosing(kind, key string, value any) bool {
	target := c.FirstEnclosing(kind)
	if target == nil {
		return false
	}

	target.PutMessage(key, value)

	return true
}

// MessageAs is the typed form of [Cursor.Message].
func MessageAs[T any](c *Cursor, key string) (T, bool) {
	var zero T

	value, ok := c.Message(key)
	if !ok {
		return zero, false
	}

	typed, ok := value.(T)

	return typed, ok
}

// NearestMessageAs is the typed form of [Cursor.NearestMessage].
func NearestMessageAs[T any](c *Cursor, key string) (T, bool) {
	var zero T

	value, ok := c.NearestMessage(key)
	if !ok {
		return zero, false
	}

	typed, ok := value.(T)

	return typed, ok
}

// Inspect walks the tree rooted at root in source order. enter is called
// before a node's children and may return false to skip them; leave, when
// non-nil, is called after the children.
func Inspect(root *Node, enter func(*Cursor) bool, leave func(*Cursor)) {
	inspect(NewCursor(root), enter, leave)
}

func inspect(c *Cursor, enter func(*Cursor) bool, leave func(*Cursor)) {
	if !enter(c) {
		return
	}

	for _, child := range c.node.Children {
		inspect(c.Push(child), enter, leave)
	}

	if leave != nil {
		leave(c)
	}
}
