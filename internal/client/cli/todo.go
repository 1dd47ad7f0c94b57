package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hkondo/secretbase/internal/client/api"
)

func formatTodo(t *api.Todo) string {
	var b strings.Builder

	mark := " "
	if t.IsCompleted {
		mark = "x"
	}
	fmt.Fprintf(&b, "[%s] #%d %s", mark, t.ID, t.Title)

	if t.Priority != nil {
		fmt.Fprintf(&b, " (p%d)", *t.Priority)
	}
	if t.CategoryName != nil {
		fmt.Fprintf(&b, " [%s]", *t.CategoryName)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, " due %s", t.DueDate.Format("2006-01-02"))
	}
	return b.String()
}

func (a *App) printTodos(items []*api.Todo) {
	if len(items) == 0 {
		printlnFn("Nothing here yet.")
		return
	}
	for i, item := range items {
		printlnFn(fmt.Sprintf("%2d. %s", i+1, formatTodo(item)))
	}
}

// List fetches and prints the full todo list in server order.
func (a *App) List(ctx context.Context) error {
	items, err := a.todos.Refresh(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	a.printTodos(items)
	return nil
}

// Priority prints the short high-priority selection.
func (a *App) Priority(ctx context.Context) error {
	items, err := a.todos.Priority(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	a.printTodos(items)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	in := &api.TodoInput{Title: title, Description: description}

	if n, ok, err := GetNumber(a.reader, "Priority 1-5 (empty to skip)", os.Stdout); err != nil {
		printlnFn("Error:", err.Error())
		return err
	} else if ok {
		p := int(n)
		in.Priority = &p
	}

	created, err := a.todos.Add(ctx, in)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Added", formatTodo(created))
	return nil
}

func (a *App) Update(ctx context.Context) error {
	id, ok, err := GetNumber(a.reader, "Todo id", os.Stdout)
	if err != nil || !ok {
		printlnFn("Update cancelled.")
		return err
	}

	title, err := getSimpleText(a.reader, "New title", os.Stdout)
	if err != nil {
		return err
	}

	done, err := getSimpleText(a.reader, "Completed? (y/n)", os.Stdout)
	if err != nil {
		return err
	}

	updated, err := a.todos.Update(ctx, id, &api.TodoInput{
		Title:       title,
		IsCompleted: strings.EqualFold(done, "y"),
	})
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Updated", formatTodo(updated))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, ok, err := GetNumber(a.reader, "Todo id", os.Stdout)
	if err != nil || !ok {
		printlnFn("Delete cancelled.")
		return err
	}

	if err := a.todos.Delete(ctx, id); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Deleted.")
	return nil
}

// Move reorders the list: the chosen todo is placed at the chosen spot and
// everything else shifts. The new order is shown immediately and pushed to
// the server; if the push fails the server's order is reloaded and shown.
func (a *App) Move(ctx context.Context) error {
	id, ok, err := GetNumber(a.reader, "Todo id", os.Stdout)
	if err != nil || !ok {
		printlnFn("Move cancelled.")
		return err
	}

	pos, ok, err := GetNumber(a.reader, "New position (1 = top)", os.Stdout)
	if err != nil || !ok {
		printlnFn("Move cancelled.")
		return err
	}

	if err := a.todos.Reorder(ctx, id, int(pos)-1); err != nil {
		printlnFn("Error:", err.Error())
		a.printTodos(a.todos.Cached())
		return err
	}
	a.printTodos(a.todos.Cached())
	return nil
}
