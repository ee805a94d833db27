package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	RequestResponse Category = "RequestResponse"
	Client          Category = "Client"
	Serialization   Category = "Serialization"
)

const (
	// General
	Startup      SubCategory = "Startup"
	Shutdown     SubCategory = "Shutdown"
	RateLimiting SubCategory = "RateLimiting"

	// Client
	Api          SubCategory = "Api"
	Retry        SubCategory = "Retry"
	Unauthorized SubCategory = "Unauthorized"
	Stream       SubCategory = "Stream"

	// Serialization
	Skipped SubCategory = "Skipped"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
	RequestID    ExtraKey = "RequestId"
	Attempt      ExtraKey = "Attempt"
	ErrorCode    ExtraKey = "ErrorCode"
	ParamKey     ExtraKey = "ParamKey"
	WarningKind  ExtraKey = "WarningKind"
)
