package logging

import (
	"io"

	"github.com/edygar/interval/logger"
)

type WriterOutlet struct {
	formatter EntryFormatter
	writer    io.Writer
}

var _ logger.Outlet = WriterOutlet{}

func NewWriterOutlet(formatter EntryFormatter, writer io.Writer) WriterOutlet {
	return WriterOutlet{formatter, writer}
}

// WriteEntry writes the formatted entry and a newline in a single Write,
// so lines from concurrent writers to the same stream do not interleave.
func (h WriterOutlet) WriteEntry(entry logger.Entry) error {
	bytes, err := h.formatter.Format(&entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(append(bytes, '\n'))
	return err
}
