// Package movementtest provides generators for property tests over
// movement sets.
package movementtest

import (
	"reflect"
	"strconv"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/gyaneshwarpardhi/tempreach/internal/movement"
)

// Premises is the size of the premise pool generated movements draw from.
const Premises = 8

// Movement generates a single valid movement over a small premise pool so
// generated sets are dense enough to form chains.
func Movement(maxDay int) gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, Premises-1),
		gen.IntRange(1, Premises-1),
		gen.IntRange(0, maxDay),
	).Map(func(vals []interface{}) movement.Movement {
		src := vals[0].(int)
		dst := (src + vals[1].(int)) % Premises
		return movement.Movement{
			Source:      movement.NodeID(strconv.Itoa(src)),
			Destination: movement.NodeID(strconv.Itoa(dst)),
			Day:         vals[2].(int),
		}
	})
}

// Movements generates a non-empty slice of up to maxLen valid movements.
func Movements(maxLen, maxDay int) gopter.Gen {
	return gen.IntRange(1, maxLen).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), Movement(maxDay))
	}, reflect.TypeOf([]movement.Movement{}))
}
