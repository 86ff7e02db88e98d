/*
Package console is the operator menu around the reconciler.

PURPOSE:
  Reads menu choices and field input line by line, calls the reconcile
  service and prints the outcome. It is the only place that knows about
  menu codes; the core only sees badges, dates and times.

INPUT:
  Any io.Reader. End of input behaves like choosing Exit, and inside a
  prompt like pressing ENTER, so scripted sessions always terminate.

ERRORS:
  Nothing ends the session except Exit. Informational outcomes print as
  [INFO], failures as [ERROR], and the menu comes back.

SEE ALSO:
  - command.go: Menu enumeration
  - reconcile/service.go: Operations called from here
*/
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/warp/timeclock/punch"
	"github.com/warp/timeclock/reconcile"
)

// Version is printed in the banner.
const Version = "1.0"

// Session is one interactive run of the menu.
type Session struct {
	svc      *reconcile.Service
	in       *bufio.Scanner
	out      io.Writer
	dataFile string
}

// NewSession creates a session reading from in and writing to out.
// dataFile is only used for the banner.
func NewSession(svc *reconcile.Service, in io.Reader, out io.Writer, dataFile string) *Session {
	return &Session{svc: svc, in: bufio.NewScanner(in), out: out, dataFile: dataFile}
}

// Run shows the menu until the operator exits or input ends.
func (s *Session) Run(ctx context.Context) error {
	s.printf("====================================\n")
	s.printf(" TIMECLOCK RECONCILIATION v%s\n", Version)
	s.printf("====================================\n")
	s.printf("\nAttendance file: %s\n", s.dataFile)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.printf("\n=== MAIN MENU ===\n")
		for _, c := range Commands() {
			s.printf("%d - %s\n", int(c), c)
		}
		choice, ok := s.ask("Choose an option: ")
		if !ok {
			break
		}

		switch ParseCommand(choice) {
		case CmdCorrect:
			s.correct(ctx)
		case CmdView:
			s.view()
		case CmdShowFile:
			s.showFile()
		case CmdReport:
			s.report()
		case CmdDuplicate:
			s.duplicate(ctx)
		case CmdManualAdd:
			s.manualAdd(ctx)
		case CmdListBadges:
			s.listBadges()
		case CmdExit:
			s.printf("\nDone.\n")
			return nil
		default:
			s.printf("Invalid option. Try again.\n")
		}
	}
	s.printf("\nDone.\n")
	return nil
}

// =============================================================================
// MENU ACTIONS
// =============================================================================

func (s *Session) correct(ctx context.Context) {
	s.listBadges()
	badge, _ := s.ask("\nBadge to correct: ")

	current := ""
	res, err := s.svc.CorrectAutomatically(ctx, badge, func(p reconcile.Prompt) string {
		if p.Date != current {
			current = p.Date
			s.printf("\nCorrecting %s (%s) - existing: %s\n", p.Date, p.Status, joinOrNone(p.Times))
		}
		if p.Rejected != "" {
			if p.Status == punch.StatusMissing {
				s.printf("Invalid or already recorded time.\n")
			} else {
				s.printf("Time not found on this day.\n")
			}
		}
		verb := "add"
		if p.Status == punch.StatusExcess {
			verb = "remove"
		}
		answer, _ := s.ask(fmt.Sprintf("Time to %s (HHMM) or ENTER to skip: ", verb))
		return answer
	})
	if errors.Is(err, punch.ErrBadgeNotFound) || errors.Is(err, punch.ErrNoProblems) {
		s.reportError(err)
		return
	}

	for _, d := range res.Days {
		for _, t := range d.Added {
			s.printf("%s: punch %s added.\n", d.Date, t)
		}
		for _, t := range d.Removed {
			s.printf("%s: punch %s removed.\n", d.Date, t)
		}
	}
	if err != nil {
		s.reportError(err)
	}
	if n := len(res.Written); n > 0 {
		s.printf("\n[SUCCESS] %d line(s) added to the file.\n", n)
	} else {
		s.printf("\nNo new lines written.\n")
	}
}

func (s *Session) view() {
	s.listBadges()
	badge, _ := s.ask("\nBadge: ")
	days, err := s.svc.Summary(badge)
	if err != nil {
		s.reportError(err)
		return
	}
	for _, d := range days {
		s.printf("%s: %d punch(es) -> %s (%sh)\n", d.Date, d.Count, strings.Join(d.Times, ", "), d.Hours.StringFixed(2))
	}
}

func (s *Session) showFile() {
	lines, err := s.svc.FileContents()
	if err != nil {
		s.reportError(err)
		return
	}
	if len(lines) == 0 {
		s.printf("[INFO] The file is empty.\n")
		return
	}
	s.printf("\n--- FILE CONTENTS ---\n")
	for i, l := range lines {
		s.printf("%03d: %s\n", i+1, l)
	}
}

func (s *Session) report() {
	s.listBadges()
	badge, _ := s.ask("\nBadge: ")
	rep, err := s.svc.MonthlyReport(badge)
	if err != nil {
		s.reportError(err)
		return
	}
	s.printf("\n--- MONTHLY REPORT (%s to %s) ---\n", rep.From, rep.To)
	for _, d := range rep.Days {
		if d.Status == punch.StatusNoRecord {
			s.printf("%s: no record\n", d.Date)
			continue
		}
		s.printf("%s: %d punch(es) - %s\n", d.Date, d.Count, d.Status)
	}
}

func (s *Session) duplicate(ctx context.Context) {
	s.listBadges()
	badge, _ := s.ask("\nBadge: ")
	source, _ := s.ask("Source date (DD/MM/YYYY): ")
	targets, _ := s.ask("Target dates (DD/MM/YYYY), comma separated: ")

	res, err := s.svc.DuplicateDay(ctx, badge, source, SplitList(targets))
	for _, t := range res.Targets {
		switch t.Outcome {
		case reconcile.TargetInvalidDate:
			s.printf("Invalid date: %s - skipping.\n", t.Date)
		case reconcile.TargetHasPunches:
			s.printf("%s: already has punches - skipping.\n", t.Date)
		case reconcile.TargetWritten:
			s.printf("%d punch(es) duplicated to %s.\n", t.Written, t.Date)
		case reconcile.TargetNothingNew:
			s.printf("%s: every line already in the file.\n", t.Date)
		}
	}
	if err != nil {
		s.reportError(err)
		if len(res.Targets) == 0 {
			return
		}
	}
	s.printf("\nDuplication finished. %d line(s) added.\n", res.Total)
}

func (s *Session) manualAdd(ctx context.Context) {
	s.printf("\n--- ADD PUNCHES MANUALLY ---\n")
	badge, _ := s.ask("Badge: ")
	date, _ := s.ask("Date (DD/MM/YYYY): ")
	times, _ := s.ask("Times, comma separated (e.g. 0800,1200,1300,1800): ")

	res, err := s.svc.ManualAdd(ctx, badge, date, SplitList(times))
	if err != nil {
		s.reportError(err)
		if len(res.Written) == 0 {
			return
		}
	}
	if len(res.Written) > 0 {
		s.printf("\n%d punch(es) added for %s.\n", len(res.Written), res.Date)
	} else {
		s.printf("Every punch given is already in the file.\n")
	}
}

func (s *Session) listBadges() {
	badges := s.svc.Badges()
	if len(badges) == 0 {
		s.printf("[INFO] No badges loaded.\n")
		return
	}
	s.printf("\n--- Available badges ---\n")
	for _, b := range badges {
		s.printf("%s\n", b)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// SplitList splits comma-separated operator input, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *Session) reportError(err error) {
	switch {
	case errors.Is(err, punch.ErrBadgeNotFound):
		s.printf("Badge not found.\n")
	case errors.Is(err, punch.ErrNoProblems):
		s.printf("No problems found for this badge.\n")
	case errors.Is(err, punch.ErrNoTargets):
		s.printf("No target date given.\n")
	case errors.Is(err, punch.ErrNoValidTimes):
		s.printf("No valid time given.\n")
	case errors.Is(err, punch.ErrInsufficientInput):
		s.printf("Not enough data to add a record.\n")
	case errors.Is(err, punch.ErrFileNotFound):
		s.printf("[INFO] %v\n", err)
	case punch.IsInformational(err):
		s.printf("[INFO] %v\n", err)
	default:
		s.printf("[ERROR] %v\n", err)
	}
}

// ask prints a prompt and reads one line. ok is false at end of input.
func (s *Session) ask(prompt string) (string, bool) {
	s.printf("%s", prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func joinOrNone(times []string) string {
	if len(times) == 0 {
		return "none"
	}
	return strings.Join(times, ", ")
}
