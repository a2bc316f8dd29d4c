package revio_test

import (
	"context"
	"fmt"
	"log"

	"github.com/revio/revio"
)

// Example_basic demonstrates wiring the application, creating a review,
// and observing the fan-out event another client would receive.
func Example_basic() {
	app, err := revio.New()
	if err != nil {
		log.Fatal(err)
	}
	defer app.Broker.Close()

	ctx := context.Background()

	// Another client's subscription. It starts empty: only events
	// published after this point arrive.
	_, events := app.Broker.Subscribe()

	review, err := app.Service.Create(ctx, "First review", "This collection is shared.")
	if err != nil {
		log.Fatal(err)
	}

	e := <-events
	fmt.Println(e.Kind)
	fmt.Println(e.Review.Title == review.Title)
	// Output:
	// reviewAdded
	// true
}
