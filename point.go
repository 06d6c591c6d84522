package main

import "fmt"

// Point is an integer map coordinate. Y grows with depth.
type Point struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// DistSq returns the squared euclidean distance between p and q
func (p Point) DistSq(q Point) int {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

func (p Point) String() string {
	return fmt.Sprintf("%d %d", p.X, p.Y)
}
