package archiver

import "strconv"

// Operation names the kind of archive operation.
type Operation string

const (
	OpCompress Operation = "compress"
	OpExtract  Operation = "extract"
	OpTest     Operation = "test"
	OpOpen     Operation = "open"
)

// Outcome is the normalized meaning of an exit code.
type Outcome struct {
	Error   bool
	Fatal   bool
	Warning bool
	Message string
}

var success = Outcome{Message: "no error"}

func warning(msg string) Outcome { return Outcome{Warning: true, Message: msg} }
func fatal(msg string) Outcome   { return Outcome{Error: true, Fatal: true, Message: msg} }

// ExitCodes maps exit codes to outcomes for one backend and operation.
type ExitCodes map[int]Outcome

// Classify returns the outcome for code. Codes missing from the table are fatal.
func (t ExitCodes) Classify(code int) Outcome {
	if o, found := t[code]; found {
		return o
	}
	return fatal("unknown exit code " + strconv.Itoa(code))
}

var zipCompressCodes = ExitCodes{
	0:   success,
	1:   warning("warning: non fatal error, e.g. some files were locked and skipped"),
	2:   fatal("fatal error"),
	7:   fatal("command line error"),
	8:   fatal("not enough memory for operation"),
	255: fatal("user stopped the process"),
}

var zipExtractCodes = ExitCodes{
	0:   success,
	1:   warning("warning: non fatal error"),
	2:   fatal("fatal error"),
	3:   fatal("command line error"),
	5:   fatal("not enough memory for operation"),
	7:   fatal("command line error"),
	8:   fatal("not enough memory for operation"),
	255: fatal("user stopped the process"),
}

var rarCommonCodes = ExitCodes{
	0:   success,
	1:   warning("warning: non fatal error"),
	2:   fatal("fatal error"),
	3:   fatal("CRC error, data is damaged"),
	4:   fatal("attempt to modify a locked archive"),
	5:   fatal("write error"),
	6:   fatal("file open error"),
	7:   fatal("command line error"),
	8:   fatal("not enough memory for operation"),
	9:   fatal("file create error"),
	11:  fatal("wrong password"),
	255: fatal("user stopped the process"),
}

func withCode(base ExitCodes, code int, o Outcome) ExitCodes {
	t := make(ExitCodes, len(base)+1)
	for k, v := range base {
		t[k] = v
	}
	t[code] = o
	return t
}

var (
	// RAR reports 10 when an update found nothing to do.
	rarCompressCodes = withCode(rarCommonCodes, 10, Outcome{Message: "archive unchanged, nothing to update"})
	rarExtractCodes  = withCode(rarCommonCodes, 10, fatal("no files matching the specified mask"))
)

// ExitCodeTable returns the classification table for backend b and op.
func ExitCodeTable(b Backend, op Operation) ExitCodes {
	if b == Rar {
		if op == OpCompress {
			return rarCompressCodes
		}
		return rarExtractCodes
	}
	if op == OpCompress {
		return zipCompressCodes
	}
	return zipExtractCodes
}

// Classify maps an exit code of backend b running op to an outcome.
func Classify(b Backend, op Operation, code int) Outcome {
	return ExitCodeTable(b, op).Classify(code)
}
