package datastructure

import "errors"

var (
	ErrEmptyQueue   = errors.New("priority queue is empty")
	ErrItemNotFound = errors.New("item not found in priority queue")
)

type PriorityQueueNode[T comparable] struct {
	Rank float64
	Item T
	seq  uint64
}

func NewPriorityQueueNode[T comparable](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap binary heap priorityqueue. ties on Rank are resolved by insertion order.
// pos maps each item to its heap index, so Contains & DecreaseKey are O(1) / O(logN).
type MinHeap[T comparable] struct {
	heap    []PriorityQueueNode[T]
	pos     map[T]int
	nextSeq uint64
}

func NewMinHeap[T comparable]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	if h.heap[i].Rank != h.heap[j].Rank {
		return h.heap[i].Rank < h.heap[j].Rank
	}
	return h.heap[i].seq < h.heap[j].seq
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

// heapifyUp swap with the parent while the parent ranks higher. O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown swap with the smaller child while that child ranks lower. O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.pos[item]
	return ok
}

// GetMin returns the minimum without removing it.
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyQueue
	}
	return h.heap[0], nil
}

// Insert add a new item. inserting an item already in the heap updates its rank instead.
func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	if _, ok := h.pos[node.Item]; ok {
		_ = h.DecreaseKey(node)
		return
	}

	node.seq = h.nextSeq
	h.nextSeq++

	h.heap = append(h.heap, node)
	index := len(h.heap) - 1
	h.pos[node.Item] = index
	h.heapifyUp(index)
}

// ExtractMin pop the minimum (index 0). O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, ErrEmptyQueue
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, root.Item)

	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey set a new rank for an item already in the heap. the item keeps its insertion order for ties.
func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	index, ok := h.pos[node.Item]
	if !ok {
		return ErrItemNotFound
	}

	oldRank := h.heap[index].Rank
	h.heap[index].Rank = node.Rank
	if node.Rank < oldRank {
		h.heapifyUp(index)
	} else {
		h.heapifyDown(index)
	}
	return nil
}
