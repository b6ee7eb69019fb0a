// Package format defines the small enumerations shared by the manifest,
// compression, storage, and writer packages.
package format

// CompressionType selects the codec used by the compress package. It
// mirrors the manifest-level CompressionFormat exactly: the manifest only
// ever records "" or "zstd", and compress.CreateCodec accepts nothing else.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// StorageID selects which storage backend realizes a bag.
type StorageID uint8

const (
	StorageAuto    StorageID = 0 // StorageAuto means "detect by file extension".
	StorageSQLite3 StorageID = 1
	StorageMCAP    StorageID = 2
)

func (s StorageID) String() string {
	switch s {
	case StorageSQLite3:
		return "sqlite3"
	case StorageMCAP:
		return "mcap"
	default:
		return ""
	}
}

// ParseStorageID maps a manifest storage_identifier string to a StorageID.
// An empty string maps to StorageAuto, not an error; the caller resolves it
// by file extension.
func ParseStorageID(s string) (StorageID, bool) {
	switch s {
	case "":
		return StorageAuto, true
	case "sqlite3":
		return StorageSQLite3, true
	case "mcap":
		return StorageMCAP, true
	default:
		return StorageAuto, false
	}
}

// CompressionFormat names the compression algorithm recorded in the manifest.
type CompressionFormat uint8

const (
	CompressionFormatNone CompressionFormat = 0
	CompressionFormatZstd CompressionFormat = 1
)

func (c CompressionFormat) String() string {
	switch c {
	case CompressionFormatZstd:
		return "zstd"
	default:
		return ""
	}
}

// ParseCompressionFormat maps a manifest compression_format string.
func ParseCompressionFormat(s string) (CompressionFormat, bool) {
	switch s {
	case "":
		return CompressionFormatNone, true
	case "zstd":
		return CompressionFormatZstd, true
	default:
		return CompressionFormatNone, false
	}
}

// CompressionMode names where compression is applied within a bag.
type CompressionMode uint8

const (
	CompressionModeNone    CompressionMode = 0
	CompressionModeFile    CompressionMode = 1
	CompressionModeMessage CompressionMode = 2
	CompressionModeStorage CompressionMode = 3
)

func (c CompressionMode) String() string {
	switch c {
	case CompressionModeFile:
		return "file"
	case CompressionModeMessage:
		return "message"
	case CompressionModeStorage:
		return "storage"
	default:
		return ""
	}
}

// ParseCompressionMode maps a manifest compression_mode string.
func ParseCompressionMode(s string) (CompressionMode, bool) {
	switch s {
	case "":
		return CompressionModeNone, true
	case "file":
		return CompressionModeFile, true
	case "message":
		return CompressionModeMessage, true
	case "storage":
		return CompressionModeStorage, true
	default:
		return CompressionModeNone, false
	}
}

// SerializationFormat names the payload wire codec. The core only accepts "cdr".
type SerializationFormat string

const CDR SerializationFormat = "cdr"

// HistoryPolicy is the QoS history policy.
type HistoryPolicy uint8

const (
	HistorySystemDefault HistoryPolicy = iota
	HistoryKeepLast
	HistoryKeepAll
	HistoryUnknown
)

func (h HistoryPolicy) String() string {
	switch h {
	case HistoryKeepLast:
		return "keep_last"
	case HistoryKeepAll:
		return "keep_all"
	case HistoryUnknown:
		return "unknown"
	default:
		return "system_default"
	}
}

// Reliability is the QoS reliability policy.
type Reliability uint8

const (
	ReliabilitySystemDefault Reliability = iota
	ReliabilityReliable
	ReliabilityBestEffort
	ReliabilityUnknown
	ReliabilityBestAvailable
)

func (r Reliability) String() string {
	switch r {
	case ReliabilityReliable:
		return "reliable"
	case ReliabilityBestEffort:
		return "best_effort"
	case ReliabilityUnknown:
		return "unknown"
	case ReliabilityBestAvailable:
		return "best_available"
	default:
		return "system_default"
	}
}

// Durability is the QoS durability policy.
type Durability uint8

const (
	DurabilitySystemDefault Durability = iota
	DurabilityTransientLocal
	DurabilityVolatile
	DurabilityUnknown
	DurabilityBestAvailable
)

func (d Durability) String() string {
	switch d {
	case DurabilityTransientLocal:
		return "transient_local"
	case DurabilityVolatile:
		return "volatile"
	case DurabilityUnknown:
		return "unknown"
	case DurabilityBestAvailable:
		return "best_available"
	default:
		return "system_default"
	}
}

// Liveliness is the QoS liveliness policy.
type Liveliness uint8

const (
	LivelinessSystemDefault Liveliness = iota
	LivelinessAutomatic
	LivelinessManualByNode
	LivelinessManualByTopic
	LivelinessUnknown
	LivelinessBestAvailable
)

func (l Liveliness) String() string {
	switch l {
	case LivelinessAutomatic:
		return "automatic"
	case LivelinessManualByNode:
		return "manual_by_node"
	case LivelinessManualByTopic:
		return "manual_by_topic"
	case LivelinessUnknown:
		return "unknown"
	case LivelinessBestAvailable:
		return "best_available"
	default:
		return "system_default"
	}
}

// MessageDefinitionFormat tags how a connection's message definition text is encoded.
type MessageDefinitionFormat uint8

const (
	MsgDefNone MessageDefinitionFormat = iota
	MsgDefMsg
	MsgDefIDL
)

func (f MessageDefinitionFormat) String() string {
	switch f {
	case MsgDefMsg:
		return "msg"
	case MsgDefIDL:
		return "idl"
	default:
		return "none"
	}
}
