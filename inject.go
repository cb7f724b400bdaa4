package livecanvas

// keyQueue holds synthetic key presses for displays without a real keyboard.
// One key is consumed per Poll, so a queued sequence spans several frames.
type keyQueue struct {
	keys []Key
}

// InjectKey queues a key press consumed by the next Poll.
func (q *keyQueue) InjectKey(k Key) {
	q.keys = append(q.keys, k)
}

// InjectQuit queues an Escape press.
func (q *keyQueue) InjectQuit() {
	q.InjectKey(KeyEscape)
}

// pop removes the oldest key and returns its input.
func (q *keyQueue) pop() Input {
	if len(q.keys) == 0 {
		return Input{}
	}
	k := q.keys[0]
	copy(q.keys, q.keys[1:])
	q.keys = q.keys[:len(q.keys)-1]
	return inputForKey(k)
}

// queued returns the number of pending keys.
func (q *keyQueue) queued() int {
	return len(q.keys)
}
