package model

import (
	"fmt"
	"time"

	"github.com/rosbaglib/bagcore/errs"
	"github.com/rosbaglib/bagcore/format"
)

// Duration is a (seconds, nanoseconds) pair, the manifest's wire shape for
// QoS deadline and lifespan.
type Duration struct {
	Sec  int64
	Nsec uint32
}

// AsTimeDuration converts d to a time.Duration, useful for callers that
// want to reason about QoS timing with the standard library.
func (d Duration) AsTimeDuration() time.Duration {
	return time.Duration(d.Sec)*time.Second + time.Duration(d.Nsec)*time.Nanosecond
}

// QoS is a fixed QoS profile record, mirroring the offered_qos_profiles
// entries a connection carries.
type QoS struct {
	History                  format.HistoryPolicy
	Depth                    int64
	Reliability              format.Reliability
	Durability               format.Durability
	Deadline                 Duration
	Lifespan                 Duration
	Liveliness               format.Liveliness
	LivelinessLeaseDuration  Duration
	AvoidRosNamespaceConvent bool // avoid_ros_namespace_conventions
}

// DefaultQoS returns the system-default profile used when a connection is
// registered without an explicit QoS list.
func DefaultQoS() QoS {
	return QoS{}
}

// Validate reports whether q's fields hold values the core understands.
// Unknown/best-available are accepted as a recoverable policy per spec;
// out-of-range depth is rejected.
func (q QoS) Validate() error {
	if q.Depth < 0 {
		return fmt.Errorf("%w: negative depth %d", errs.ErrInvalidQoSProfile, q.Depth)
	}

	return nil
}

func (q QoS) String() string {
	return fmt.Sprintf(
		"QoS{history=%s depth=%d reliability=%s durability=%s deadline=%v lifespan=%v liveliness=%s lease=%v}",
		q.History, q.Depth, q.Reliability, q.Durability, q.Deadline, q.Lifespan, q.Liveliness, q.LivelinessLeaseDuration,
	)
}
