package decisions

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrDuplicate     = errors.New("decision already recorded")
	ErrInvalidRecord = errors.New("decision record incomplete")
)

const mysqlDuplicateEntry = 1062

func classify(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}
