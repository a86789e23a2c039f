package mysql

import (
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// Summarize renders err as a stable one-line description. Server errors carry
// their code and SQL state.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		state := ""
		if me.SQLState != [5]byte{} {
			state = string(me.SQLState[:])
		}
		return fmt.Sprintf("code=%d, state=%s, message=%s", me.Number, state, me.Message)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return "io=" + err.Error()
	}
	return "driver=" + err.Error()
}
