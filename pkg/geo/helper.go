package geo

import (
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
)

const (
	DOUGLAS_PEUCKER_THRESHOLD = 1.0 // 1 meter
)

// https://cartography-playground.gitlab.io/playgrounds/douglas-peucker-algorithm/

// SimplifyPath drops the positions that lie within threshold of the line through their kept neighbours.
// the first and last position are always kept.
func SimplifyPath(path []datastructure.Point, threshold float64) []datastructure.Point {
	size := len(path)
	if size <= 2 {
		return path
	}

	kept := make([]bool, size)
	kept[0] = true
	kept[size-1] = true

	stack := make([][2]int, 0, 16)
	stack = append(stack, [2]int{0, size - 1})

	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		left, right := pair[0], pair[1]

		var maxDist float64
		farthest := left
		for i := left + 1; i < right; i++ {
			_, dist := datastructure.ProjectPointToSegment(path[i], path[left], path[right])
			if dist > maxDist {
				maxDist = dist
				farthest = i
			}
		}

		if maxDist > threshold {
			kept[farthest] = true
			stack = append(stack, [2]int{left, farthest}, [2]int{farthest, right})
		}
	}

	simplified := make([]datastructure.Point, 0, size)
	for i, ok := range kept {
		if ok {
			simplified = append(simplified, path[i])
		}
	}
	return simplified
}
