// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vulkan

// NoQueueFamily marks an unresolved queue family index
const NoQueueFamily = ^uint32(0)

// QueueFamilyIndices are the families the device creates queues from.
type QueueFamilyIndices struct {
	Graphics uint32
	Compute  uint32
	Transfer uint32
}

// Complete reports whether all three families are resolved.
func (q QueueFamilyIndices) Complete() bool {
	return q.Graphics != NoQueueFamily && q.Compute != NoQueueFamily && q.Transfer != NoQueueFamily
}

// Unique returns the distinct families in graphics, compute, transfer
// order.
func (q QueueFamilyIndices) Unique() []uint32 {
	var out []uint32
	for _, f := range []uint32{q.Graphics, q.Compute, q.Transfer} {
		if f == NoQueueFamily {
			continue
		}
		seen := false
		for _, u := range out {
			if u == f {
				seen = true
			}
		}
		if !seen {
			out = append(out, f)
		}
	}
	return out
}

// SelectQueueFamilies picks the first graphics family, then prefers
// dedicated compute and transfer families. Compute and transfer fall
// back to the graphics family.
func SelectQueueFamilies(families []QueueFamily) QueueFamilyIndices {
	q := QueueFamilyIndices{
		Graphics: NoQueueFamily,
		Compute:  NoQueueFamily,
		Transfer: NoQueueFamily,
	}
	for i, f := range families {
		idx := uint32(i)
		switch {
		case f.Flags&QueueGraphics != 0:
			if q.Graphics == NoQueueFamily {
				q.Graphics = idx
			}
		case f.Flags&QueueCompute != 0:
			if q.Compute == NoQueueFamily {
				q.Compute = idx
			}
		case f.Flags&QueueTransfer != 0:
			if q.Transfer == NoQueueFamily {
				q.Transfer = idx
			}
		}
	}
	if q.Compute == NoQueueFamily {
		q.Compute = q.Graphics
	}
	if q.Transfer == NoQueueFamily {
		q.Transfer = q.Graphics
	}
	return q
}
