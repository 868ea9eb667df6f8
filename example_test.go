package mythos_test

import (
	"context"
	"fmt"

	"github.com/aretw0/mythos"
)

func Example() {
	ctx := context.Background()

	st, err := mythos.Open(ctx, "", mythos.WithAdapter("memory"))
	if err != nil {
		panic(err)
	}
	defer st.Close()

	j := mythos.NewJournal(st)
	j.SetGoal(ctx, 10)
	if _, err := j.Add(ctx, mythos.Draft{Title: "Prometheus"}); err != nil {
		panic(err)
	}

	p := j.Progress(ctx)
	fmt.Printf("%d/%d, %d to go\n", p.Count, p.Goal, p.Remaining)
	// Output: 1/10, 9 to go
}

func Example_notes() {
	ctx := context.Background()

	st, err := mythos.Open(ctx, "", mythos.WithAdapter("memory"))
	if err != nil {
		panic(err)
	}

	n := mythos.NewNotes(st)
	cat, _ := n.AddCategory(ctx, "Greek")
	page, _ := n.AddPage(ctx, cat.ID, "Zeus")
	_ = n.WritePanel(ctx, page.ID, "summary", "King of the gods")

	_ = n.DeleteCategory(ctx, cat.ID)
	fmt.Println(len(n.Pages(ctx, "")), len(st.ContentKeys(ctx)))
	// Output: 0 0
}
