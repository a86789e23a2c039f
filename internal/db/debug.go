package db

import (
	"os"
	"sync"
)

// DebugEnvVar enables verbose SQL logging when present in the environment.
const DebugEnvVar = "SQL_DEBUG"

// Debug reports whether SQL_DEBUG was set. The environment is sampled on
// first call and cached for the life of the process.
var Debug = sync.OnceValue(func() bool {
	_, ok := os.LookupEnv(DebugEnvVar)
	return ok
})
