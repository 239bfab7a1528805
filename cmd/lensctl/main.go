// Command lensctl runs maintenance tasks against a LensFlow store.
package main

func main() {
	Execute()
}
