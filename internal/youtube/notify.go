package youtube

// notifier delivers field-change notifications to subscribed observers.
// Setters compare before mutating, so observers never see a notification for
// a write that did not change the field. Notification is kept separate from
// field storage; entities without observers pay only a nil check.
type notifier struct {
	next int
	subs map[int]func(field string)
}

func (n *notifier) subscribe(fn func(field string)) func() {
	if n.subs == nil {
		n.subs = make(map[int]func(string))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	return func() { delete(n.subs, id) }
}

func (n *notifier) notify(field string) {
	if n == nil {
		return
	}
	for _, fn := range n.subs {
		fn(field)
	}
}
