package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксические
	SynInfo          Code = 2000
	SynExpected      Code = 2001
	SynTrailingInput Code = 2002

	// Ввод-вывод
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Конфигурация и стиль
	CfgInfo         Code = 5000
	CfgInvalidStyle Code = 5001
	CfgInvalidFile  Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:      "Unknown error",
	SynInfo:          "Syntax information",
	SynExpected:      "Unexpected input",
	SynTrailingInput: "Unparsed trailing input",
	IOLoadFileError:  "I/O load file error",
	IOWriteFileError: "I/O write file error",
	CfgInfo:          "Configuration information",
	CfgInvalidStyle:  "Invalid style",
	CfgInvalidFile:   "Invalid configuration file",
	ObsInfo:          "Observability information",
	ObsTimings:       "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
