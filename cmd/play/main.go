package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"interviewsim/internal/catalog"
	"interviewsim/internal/config"
	"interviewsim/internal/database"
	"interviewsim/internal/engine"
	"interviewsim/internal/models"
	"interviewsim/internal/repository"
	"interviewsim/internal/service"
)

func main() {
	cfg := config.Load()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load question bank: %v", err)
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.New(cat, rand.New(rand.NewSource(seed)))
	quizService := service.NewQuizService(eng, repository.NewRunRepository(db), nil, cfg.Debug)

	// Keep library logging off the quiz screen unless debugging
	if !cfg.Debug {
		log.SetOutput(io.Discard)
	}

	newConsole(quizService, os.Stdin, os.Stdout).run()
	quizService.Wait()
}

type console struct {
	svc *service.QuizService
	in  *bufio.Scanner
	out io.Writer
}

func newConsole(svc *service.QuizService, in io.Reader, out io.Writer) *console {
	return &console{svc: svc, in: bufio.NewScanner(in), out: out}
}

func (c *console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) run() {
	c.printf("Interview Simulator\n")
	c.printf("-------------------\n")
	c.listTopics()
	c.printf("Type 'help' for commands.\n")

	for {
		c.printf("> ")
		if !c.in.Scan() {
			c.printf("\n")
			return
		}
		if !c.handle(strings.TrimSpace(c.in.Text())) {
			return
		}
	}
}

// handle runs one command line and reports whether to keep reading
func (c *console) handle(line string) bool {
	if line == "" {
		return true
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return false
	case "help", "?":
		c.printHelp()
	case "topics":
		c.listTopics()
	case "start", "topic":
		c.start(arg)
	case "status":
		c.render(c.svc.Snapshot())
	case "submit", "s":
		c.apply(c.svc.Submit)
	case "hint", "h":
		hint, err := c.svc.Hint()
		if err != nil {
			c.printf("! %v\n", err)
			return true
		}
		c.printf("Hint: %s\n", hint)
	case "5050", "50/50", "lifeline", "l":
		c.apply(c.svc.Lifeline)
	case "skip":
		c.apply(c.svc.Skip)
	case "next", "n":
		c.apply(c.svc.Advance)
	default:
		idx, ok := parseChoice(cmd)
		if !ok {
			c.printf("Unknown command %q. Type 'help' for commands.\n", cmd)
			return true
		}
		snap, err := c.svc.Select(idx)
		if err != nil {
			c.printf("! %v\n", err)
			return true
		}
		if snap.State.HasSelection() {
			c.printf("Selected %s. Type 'submit' to lock it in.\n", models.ChoiceLabel(snap.State.Selection))
		}
	}
	return true
}

func (c *console) start(arg string) {
	topics := c.svc.Topics()
	name := arg
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(topics) {
		name = topics[n-1].Name
	}
	if name == "" {
		c.printf("Usage: start <number|topic name>\n")
		return
	}
	c.apply(func() (service.Snapshot, error) { return c.svc.Start(name) })
}

func (c *console) apply(action func() (service.Snapshot, error)) {
	snap, err := action()
	if err != nil {
		c.printf("! %v\n", err)
		return
	}
	c.render(snap)
}

func (c *console) listTopics() {
	c.printf("Topics:\n")
	for i, t := range c.svc.Topics() {
		c.printf("  %d. %s (%d questions)\n", i+1, t.Name, t.QuestionCount)
	}
}

func (c *console) render(snap service.Snapshot) {
	s := snap.State
	if snap.Feedback != nil {
		c.renderFeedback(snap.Feedback)
	}

	switch s.Phase() {
	case models.PhaseNoTopic:
		c.printf("No topic started. Type 'start <number>'.\n")
		return
	case models.PhaseComplete:
		c.renderSummary(snap)
		return
	}

	c.printf("\n[%s] Question %d/%d (%.0f%%)  Score: %d  Lives: %d  Streak: %d  50/50: %d\n",
		s.Topic, s.Index+1, s.Total(), s.Progress()*100, s.Score, s.Lives, s.Streak, s.LifelinesLeft)
	if s.Answered {
		c.printf("Type 'next' to continue.\n")
		return
	}

	q, _ := s.Current()
	c.printf("%s\n", q.Prompt)
	for i, choice := range q.Choices {
		if s.IsHidden(i) {
			continue
		}
		marker := " "
		if i == s.Selection {
			marker = ">"
		}
		c.printf(" %s %s) %s\n", marker, models.ChoiceLabel(i), choice.Text)
	}
}

func (c *console) renderFeedback(fb *models.Feedback) {
	if fb.Correct {
		c.printf("Correct! %+d points\n", fb.Delta)
	} else {
		c.printf("Wrong. %+d points, %d lives left. The answer was %s.\n",
			fb.Delta, fb.LivesLeft, models.ChoiceLabel(fb.AnswerIndex))
	}
	for _, e := range fb.Explanations {
		marker := " "
		switch {
		case e.IsCorrect:
			marker = "*"
		case e.IsSelected:
			marker = "x"
		}
		c.printf(" %s %s) %s: %s\n", marker, e.Label, e.Text, e.Explanation)
	}
}

func (c *console) renderSummary(snap service.Snapshot) {
	s := snap.State
	c.printf("\nRun complete: %s\n", s.Topic)
	if s.Lives <= 0 {
		c.printf("Out of lives.\n")
	}
	c.printf("Final score: %d  Lives left: %d\n", s.Score, max(s.Lives, 0))
	if sum := snap.Summary; sum != nil {
		c.printf("Answered %d, correct %d (%.0f%%), skipped %d\n",
			sum.Run.Answered, sum.Run.Correct, sum.Run.Accuracy(), sum.Run.Skipped)
		switch {
		case sum.NewBest:
			c.printf("New best score for this topic!\n")
		case sum.HasBest:
			c.printf("Best score for this topic: %d\n", sum.BestScore)
		}
	}
	c.printf("Type 'start <number>' to play again or 'quit'.\n")
}

func (c *console) printHelp() {
	c.printf("Commands:\n")
	c.printf("  topics              list topics\n")
	c.printf("  start <n|name>      start a topic\n")
	c.printf("  a-d or 1-4          select a choice\n")
	c.printf("  submit (s)          submit the selected choice\n")
	c.printf("  hint (h)            show the hint\n")
	c.printf("  5050 (l)            use the 50/50 lifeline\n")
	c.printf("  skip                skip this question\n")
	c.printf("  next (n)            go to the next question\n")
	c.printf("  status              show the current question\n")
	c.printf("  quit (q)            leave\n")
}

// parseChoice accepts a letter (a-d) or a 1-based number (1-4)
func parseChoice(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > models.ChoicesPerQuestion {
			return 0, false
		}
		return n - 1, true
	}
	idx, ok := models.ParseChoiceLabel(s)
	if !ok || idx >= models.ChoicesPerQuestion {
		return 0, false
	}
	return idx, true
}
