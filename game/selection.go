package game

import "math"

// NearestCar returns the car under the world point (x, y), or else the car
// whose center is closest to it within maxDist. When bodies overlap the
// earliest car in the snapshot wins, so the player beats drones.
func NearestCar(cars []CarView, x, y, maxDist float64) (CarView, bool) {
	var closest CarView
	found := false
	closestDist := 0.0

	for _, car := range cars {
		dist := 0.0
		if !car.Frame.Contains(x, y) {
			cx, cy := car.Frame.Center()
			dist = math.Hypot(cx-x, cy-y)
		}
		if dist > maxDist || (found && dist >= closestDist) {
			continue
		}
		closestDist = dist
		closest = car
		found = true
	}
	return closest, found
}

// CarByID returns the car with the given ID from a snapshot.
func CarByID(cars []CarView, id uint32) (CarView, bool) {
	for _, car := range cars {
		if car.ID == id {
			return car, true
		}
	}
	return CarView{}, false
}
