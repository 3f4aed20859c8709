package memscene

import (
	"github.com/mogaika/rigconv/scene"
)

type curveKey struct {
	node string
	kind scene.ChannelKind
	axis int
}

type AnimStack struct {
	StackName string
	// one map per layer
	Layers []map[curveKey]*LinearCurve

	PoseFormat string
	Repeats    bool
}

func NewAnimStack(name string) *AnimStack {
	return &AnimStack{
		StackName: name,
		Layers:    []map[curveKey]*LinearCurve{make(map[curveKey]*LinearCurve)},
	}
}

func (as *AnimStack) Name() string    { return as.StackName }
func (as *AnimStack) LayerCount() int { return len(as.Layers) }
func (as *AnimStack) Format() string  { return as.PoseFormat }
func (as *AnimStack) Repeat() bool    { return as.Repeats }

// SetCurve binds curve to the node's channel axis on layer 0.
func (as *AnimStack) SetCurve(node string, kind scene.ChannelKind, axis int, curve *LinearCurve) {
	as.Layers[0][curveKey{node: node, kind: kind, axis: axis}] = curve
}

func (as *AnimStack) Curve(layer int, node scene.Node, kind scene.ChannelKind, axis int) scene.Curve {
	if layer < 0 || layer >= len(as.Layers) || node == nil {
		return nil
	}
	c, ok := as.Layers[layer][curveKey{node: node.Name(), kind: kind, axis: axis}]
	if !ok {
		return nil
	}
	return c
}

// LinearCurve interpolates linearly between keys sorted by time.
type LinearCurve struct {
	KeyList []scene.Key
}

func NewLinearCurve(keys ...scene.Key) *LinearCurve {
	return &LinearCurve{KeyList: keys}
}

func (c *LinearCurve) Keys() []scene.Key { return c.KeyList }

func (c *LinearCurve) Duration() float32 {
	if len(c.KeyList) == 0 {
		return 0
	}
	if end := c.KeyList[len(c.KeyList)-1].Time; end > 0 {
		return end
	}
	return 0
}

func (c *LinearCurve) Evaluate(t float32) float32 {
	keys := c.KeyList
	if len(keys) == 0 {
		return 0
	}
	// first key holds before it, last key after it
	if t <= keys[0].Time {
		return keys[0].Value
	}
	for i := 1; i < len(keys); i++ {
		if t <= keys[i].Time {
			prev := keys[i-1]
			span := keys[i].Time - prev.Time
			if span <= 0 {
				return keys[i].Value
			}
			k := (t - prev.Time) / span
			return prev.Value + (keys[i].Value-prev.Value)*k
		}
	}
	return keys[len(keys)-1].Value
}
