package common

import (
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cast"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	nodeID := int64(1)
	if v := os.Getenv("CODEBOOK_NODE_ID"); v != "" {
		nodeID = cast.ToInt64(v)
	}
	var err error
	snowflakeNode, err = snowflake.NewNode(nodeID % 1024)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a cluster-unique int64 identifier.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns the string form of a snowflake identifier.
func UUID() string {
	return snowflakeNode.Generate().String()
}

// IsEmptyOrNA treats "N/A" the same as an unset value.
func IsEmptyOrNA(val string) bool {
	v := strings.TrimSpace(val)
	return v == "" || strings.EqualFold(v, "N/A")
}

// IfEmptyStr returns defval when val is blank.
func IfEmptyStr(val string, defval string) string {
	if strings.TrimSpace(val) == "" {
		return defval
	}
	return val
}
