package model

import "github.com/rosbaglib/bagcore/format"

func parseHistory(s string) format.HistoryPolicy {
	switch s {
	case "keep_last":
		return format.HistoryKeepLast
	case "keep_all":
		return format.HistoryKeepAll
	case "unknown":
		return format.HistoryUnknown
	default:
		return format.HistorySystemDefault
	}
}

func parseReliability(s string) format.Reliability {
	switch s {
	case "reliable":
		return format.ReliabilityReliable
	case "best_effort":
		return format.ReliabilityBestEffort
	case "unknown":
		return format.ReliabilityUnknown
	case "best_available":
		return format.ReliabilityBestAvailable
	default:
		return format.ReliabilitySystemDefault
	}
}

func parseDurability(s string) format.Durability {
	switch s {
	case "transient_local":
		return format.DurabilityTransientLocal
	case "volatile":
		return format.DurabilityVolatile
	case "unknown":
		return format.DurabilityUnknown
	case "best_available":
		return format.DurabilityBestAvailable
	default:
		return format.DurabilitySystemDefault
	}
}

func parseLiveliness(s string) format.Liveliness {
	switch s {
	case "automatic":
		return format.LivelinessAutomatic
	case "manual_by_node":
		return format.LivelinessManualByNode
	case "manual_by_topic":
		return format.LivelinessManualByTopic
	case "unknown":
		return format.LivelinessUnknown
	case "best_available":
		return format.LivelinessBestAvailable
	default:
		return format.LivelinessSystemDefault
	}
}
