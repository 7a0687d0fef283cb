// Package paging holds the pagination conventions shared by the KORE list
// endpoints.
//
// List calls accept Params (page size 1-100, page >= 1, page token) and
// return a Meta whose next_page_url is the cursor to the following page.
// Paginate turns a page fetcher into a lazy iter.Seq2 that follows the
// cursor until it is absent:
//
//	for sim, err := range client.Wireless.AllSims(ctx, wireless.SimFilter{}) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(sim.SID)
//	}
//
// A sequence fetches at most one page ahead of the consumer, stops as soon
// as the loop breaks, and can be ranged over only once.
package paging
