package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/employee_management_sample/crud/internal/logger"
	"github.com/locvowork/employee_management_sample/crud/internal/service"
)

const menu = "\nC = create \nR = read\nU = update\nD = delete\nE = exit\nWhat do you want?: "

// State of the command loop.
type State int

const (
	Running State = iota
	Terminated
)

func (s State) String() string {
	if s == Terminated {
		return "terminated"
	}
	return "running"
}

// EmployeeService is the set of record operations the shell dispatches to.
type EmployeeService interface {
	Create(ctx context.Context, name string, age *int, email string) service.Result
	List(ctx context.Context) service.Result
	Update(ctx context.Context, id int64, name string, age *int, email string) service.Result
	Delete(ctx context.Context, id int64) service.Result
}

// errInputClosed ends the loop when stdin reaches EOF or the context is cancelled.
var errInputClosed = errors.New("input closed")

type lineResult struct {
	text string
	err  error
}

// Shell is the interactive menu. It reads one command letter per iteration,
// prompts for the fields that command needs and prints the outcome.
type Shell struct {
	svc   EmployeeService
	in    *bufio.Reader
	out   io.Writer
	lines chan lineResult
	state State

	commands map[string]func(ctx context.Context) error
}

// New creates a shell reading commands from in and writing to out.
func New(svc EmployeeService, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		svc:   svc,
		in:    bufio.NewReader(in),
		out:   out,
		state: Running,
	}
	s.commands = map[string]func(ctx context.Context) error{
		"c": s.create,
		"r": s.read,
		"u": s.update,
		"d": s.delete,
		"e": s.exit,
	}
	return s
}

// State returns the current loop state.
func (s *Shell) State() State {
	return s.state
}

// Run loops until the user exits, input ends or ctx is cancelled.
// Only unexpected read or write failures are returned.
func (s *Shell) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	s.lines = make(chan lineResult)
	go s.readLines(done)

	for s.state == Running {
		if err := s.step(ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				logger.InfoLog(ctx, "Input closed, leaving")
				s.state = Terminated
				return nil
			}
			return err
		}
	}
	return nil
}

func (s *Shell) step(ctx context.Context) error {
	choice, err := s.prompt(ctx, menu)
	if err != nil {
		return err
	}

	cmd := strings.ToLower(choice)
	handler, ok := s.commands[cmd]
	if !ok {
		logger.DebugLog(ctx, "Invalid command %q", choice)
		s.println("\nPlease enter valid input.")
		return nil
	}

	cmdCtx := logger.WithLogger(ctx, map[string]interface{}{"command": cmd})
	logger.DebugLog(cmdCtx, "Dispatching command")
	return handler(cmdCtx)
}

func (s *Shell) create(ctx context.Context) error {
	fields, err := s.promptAll(ctx, "Enter name: ", "Enter age: ", "Enter email: ")
	if err != nil {
		return err
	}
	name, rawAge, email := fields[0], fields[1], fields[2]

	age, err := ParseAge(rawAge)
	if err != nil {
		s.printError(err)
		return nil
	}

	r := s.svc.Create(ctx, name, age, email)
	switch r.Status {
	case service.StatusOK:
		s.printf("Employee '%s' added successfully with id:%d.\n", name, r.ID)
	case service.StatusDuplicateEmail:
		s.printf("Error: Employee with email '%s' already exists.\n", email)
	default:
		s.printError(r.Err)
	}
	return nil
}

func (s *Shell) read(ctx context.Context) error {
	r := s.svc.List(ctx)
	switch r.Status {
	case service.StatusOK:
		s.println("\nEmployee List:")
		for _, e := range r.Employees {
			s.println(formatRow(e))
		}
	case service.StatusEmpty:
		s.println("No employees found.")
	default:
		s.printError(r.Err)
	}
	s.println("\n")
	return nil
}

func (s *Shell) update(ctx context.Context) error {
	fields, err := s.promptAll(ctx, "Enter your id: ", "Enter name: ", "Enter age: ", "Enter email: ")
	if err != nil {
		return err
	}
	rawID, name, rawAge, email := fields[0], fields[1], fields[2], fields[3]
	s.println("\n")
	defer s.println("\n")

	id, err := ParseID(rawID)
	if err != nil {
		s.printError(err)
		return nil
	}
	age, err := ParseAge(rawAge)
	if err != nil {
		s.printError(err)
		return nil
	}

	r := s.svc.Update(ctx, id, name, age, email)
	switch r.Status {
	case service.StatusOK:
		s.printf("Employee with ID %d updated successfully.\n", id)
	case service.StatusNotFound:
		s.printf("Error: Employee with ID %d not found.\n", id)
	case service.StatusDuplicateEmail:
		s.printf("Error: Employee with email '%s' already exists.\n", email)
	default:
		s.printError(r.Err)
	}
	return nil
}

func (s *Shell) delete(ctx context.Context) error {
	rawID, err := s.prompt(ctx, "Enter id to delete: ")
	if err != nil {
		return err
	}
	defer s.println("\n")

	id, err := ParseID(rawID)
	if err != nil {
		s.printError(err)
		return nil
	}

	r := s.svc.Delete(ctx, id)
	switch r.Status {
	case service.StatusOK:
		s.printf("Employee with ID %d deleted successfully.\n", id)
	case service.StatusNotFound:
		s.printf("Error: Employee with ID %d not found.\n", id)
	default:
		s.printError(r.Err)
	}
	return nil
}

func (s *Shell) exit(context.Context) error {
	s.state = Terminated
	return nil
}

// prompt writes text and waits for the next input line.
func (s *Shell) prompt(ctx context.Context, text string) (string, error) {
	if _, err := io.WriteString(s.out, text); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", errInputClosed
	case line := <-s.lines:
		if errors.Is(line.err, io.EOF) {
			return "", errInputClosed
		}
		if line.err != nil {
			return "", fmt.Errorf("failed to read input: %w", line.err)
		}
		return line.text, nil
	}
}

func (s *Shell) promptAll(ctx context.Context, prompts ...string) ([]string, error) {
	answers := make([]string, 0, len(prompts))
	for _, p := range prompts {
		answer, err := s.prompt(ctx, p)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// readLines feeds s.lines until the reader fails or done is closed.
func (s *Shell) readLines(done <-chan struct{}) {
	for {
		text, err := s.in.ReadString('\n')
		// A last line without a trailing newline still counts; EOF comes on the next read.
		if errors.Is(err, io.EOF) && text != "" {
			err = nil
		}

		select {
		case s.lines <- lineResult{text: strings.TrimRight(text, "\r\n"), err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

func (s *Shell) printError(err error) {
	s.printf("Error: %v.\n", err)
}
