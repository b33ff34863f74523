package pointcloud

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// SensorOrigin is the sensor acquisition origin (x, y, z, padding).
func (pc *PointCloud) SensorOrigin() [4]float64 { return pc.origin }

// SetSensorOrigin sets the sensor acquisition origin.
func (pc *PointCloud) SetSensorOrigin(o [4]float64) { pc.origin = o }

// SensorOrientation is the unit quaternion of the sensor pose. The default
// is the identity.
func (pc *PointCloud) SensorOrientation() quat.Number { return pc.orientation }

// SetSensorOrientation stores q normalized to unit length.
func (pc *PointCloud) SetSensorOrientation(q quat.Number) error {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return fmt.Errorf("quaternion %v: %w", q, ErrInvalidOrientation)
	}
	pc.orientation = quat.Scale(1/norm, q)
	return nil
}
