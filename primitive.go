package glpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// captureBase maps a drawn topology to the topology transform feedback
// records. Strips are captured as their separate primitives.
func captureBase(prim gputypes.PrimitiveTopology) (gputypes.PrimitiveTopology, error) {
	switch prim {
	case gputypes.PrimitiveTopologyPointList:
		return gputypes.PrimitiveTopologyPointList, nil
	case gputypes.PrimitiveTopologyLineList, gputypes.PrimitiveTopologyLineStrip:
		return gputypes.PrimitiveTopologyLineList, nil
	case gputypes.PrimitiveTopologyTriangleList, gputypes.PrimitiveTopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleList, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrimitive, prim)
	}
}

// capturedVertices returns how many vertices a capture of count drawn
// vertices records. Strip vertices are repeated for every primitive
// they belong to.
func capturedVertices(prim gputypes.PrimitiveTopology, count int) int {
	switch prim {
	case gputypes.PrimitiveTopologyLineList:
		return count - count%2
	case gputypes.PrimitiveTopologyLineStrip:
		return 2 * max(count-1, 0)
	case gputypes.PrimitiveTopologyTriangleList:
		return count - count%3
	case gputypes.PrimitiveTopologyTriangleStrip:
		return 3 * max(count-2, 0)
	default:
		return count
	}
}
