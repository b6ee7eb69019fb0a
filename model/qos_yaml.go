package model

import (
	"gopkg.in/yaml.v3"
)

// QoSProfiles is the manifest-facing form of a connection's
// offered_qos_profiles field: either a YAML list of profiles (current
// manifest versions) or a single legacy string that is forwarded verbatim
// without attempting to parse its inner format, per the manifest's QoS
// ambiguity rule.
type QoSProfiles struct {
	Legacy   string
	Profiles []QoS
}

// Empty reports whether there is nothing to serialize.
func (q QoSProfiles) Empty() bool {
	return q.Legacy == "" && len(q.Profiles) == 0
}

// MarshalYAML emits the list form when profiles are present and non-empty,
// the legacy string when only that is set, or an empty string otherwise —
// matching the manifest's rule to always prefer the list form on write.
func (q QoSProfiles) MarshalYAML() (interface{}, error) {
	if len(q.Profiles) > 0 {
		nodes := make([]yamlQoS, len(q.Profiles))
		for i, p := range q.Profiles {
			nodes[i] = toYAMLQoS(p)
		}

		return nodes, nil
	}

	return q.Legacy, nil
}

// UnmarshalYAML accepts either shape on read.
func (q *QoSProfiles) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}

		q.Legacy = s
		q.Profiles = nil

		return nil
	case yaml.SequenceNode:
		var nodes []yamlQoS
		if err := value.Decode(&nodes); err != nil {
			return err
		}

		profiles := make([]QoS, len(nodes))
		for i, n := range nodes {
			profiles[i] = n.toQoS()
		}

		q.Profiles = profiles
		q.Legacy = ""

		return nil
	default:
		// Null/omitted node: treat as empty, matching the manifest's
		// tolerance for omitted later-version fields.
		*q = QoSProfiles{}

		return nil
	}
}

// yamlQoS is the wire shape of a single QoS profile entry.
type yamlQoS struct {
	History                  string      `yaml:"history"`
	Depth                    int64       `yaml:"depth"`
	Reliability              string      `yaml:"reliability"`
	Durability               string      `yaml:"durability"`
	Deadline                 yamlQoSTime `yaml:"deadline"`
	Lifespan                 yamlQoSTime `yaml:"lifespan"`
	Liveliness               string      `yaml:"liveliness"`
	LivelinessLeaseDuration  yamlQoSTime `yaml:"liveliness_lease_duration"`
	AvoidRosNamespaceConvent bool        `yaml:"avoid_ros_namespace_conventions"`
}

type yamlQoSTime struct {
	Sec  int64  `yaml:"sec"`
	Nsec uint32 `yaml:"nsec"`
}

func toYAMLQoS(q QoS) yamlQoS {
	return yamlQoS{
		History:                  q.History.String(),
		Depth:                    q.Depth,
		Reliability:              q.Reliability.String(),
		Durability:               q.Durability.String(),
		Deadline:                 yamlQoSTime{Sec: q.Deadline.Sec, Nsec: q.Deadline.Nsec},
		Lifespan:                 yamlQoSTime{Sec: q.Lifespan.Sec, Nsec: q.Lifespan.Nsec},
		Liveliness:               q.Liveliness.String(),
		LivelinessLeaseDuration:  yamlQoSTime{Sec: q.LivelinessLeaseDuration.Sec, Nsec: q.LivelinessLeaseDuration.Nsec},
		AvoidRosNamespaceConvent: q.AvoidRosNamespaceConvent,
	}
}

func (y yamlQoS) toQoS() QoS {
	return QoS{
		History:                 parseHistory(y.History),
		Depth:                   y.Depth,
		Reliability:             parseReliability(y.Reliability),
		Durability:              parseDurability(y.Durability),
		Deadline:                Duration{Sec: y.Deadline.Sec, Nsec: y.Deadline.Nsec},
		Lifespan:                Duration{Sec: y.Lifespan.Sec, Nsec: y.Lifespan.Nsec},
		Liveliness:              parseLiveliness(y.Liveliness),
		LivelinessLeaseDuration: Duration{Sec: y.LivelinessLeaseDuration.Sec, Nsec: y.LivelinessLeaseDuration.Nsec},
		AvoidRosNamespaceConvent: y.AvoidRosNamespaceConvent,
	}
}
