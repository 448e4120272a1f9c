package console_test

import (
	"bytes"
	"testing"

	"github.com/okian/jury/internal/adapters/console"
	"github.com/okian/jury/internal/domain/assign"
	"github.com/smartystreets/goconvey/convey"
)

func TestPrinter(t *testing.T) {
	convey.Convey("Given a printer over a buffer", t, func() {
		var buf bytes.Buffer
		p := console.New(&buf)

		convey.Convey("When a run succeeds", func() {
			err := p.Success("/tmp/output", assign.Summary{Presentations: 3, RoundPapers: 2, ConflictPapers: 2})

			convey.Convey("Then the banner names the output directory and totals", func() {
				convey.So(err, convey.ShouldBeNil)
				out := buf.String()
				convey.So(out, convey.ShouldContainSubstring, "Scheduling successfully completed!")
				convey.So(out, convey.ShouldContainSubstring, "Presentations assigned: 3")
				convey.So(out, convey.ShouldContainSubstring, "Paper reviews assigned: 4")
				convey.So(out, convey.ShouldContainSubstring, "Output data can be found in /tmp/output.")
			})
		})

		convey.Convey("When a run fails", func() {
			err := p.Failure("The following files are missing.\n\"/in\" (input folder)\n", "/out/error.txt")

			convey.Convey("Then every diagnostic line and the saved path are shown", func() {
				convey.So(err, convey.ShouldBeNil)
				out := buf.String()
				convey.So(out, convey.ShouldContainSubstring, "[Error]")
				convey.So(out, convey.ShouldContainSubstring, "The following files are missing.")
				convey.So(out, convey.ShouldContainSubstring, `"/in" (input folder)`)
				convey.So(out, convey.ShouldContainSubstring, "Check /out/error.txt to review this error message.")
			})
		})
	})
}
